package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/safing/pqbase/config"
	"github.com/safing/pqbase/formats/dsd"
	"github.com/safing/pqbase/info"
	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/metrics"
	"github.com/safing/pqbase/modules"
	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/pqcinit"
	"github.com/safing/pqbase/report"
	"github.com/safing/pqbase/rng"
	"github.com/safing/pqbase/run"
	"github.com/safing/pqbase/selftest"
)

var (
	kemFlag         string
	sigFlag         string
	formatFlag      string
	historyFlag     string
	metricsFlag     string
	seedFlag        string
	listFlag        bool
	printConfigFlag bool

	outputFormat dsd.SerializationFormat
)

func init() {
	flag.StringVar(&kemFlag, "kem", "all", "comma separated KEM algorithms to test, \"all\" or \"none\"")
	flag.StringVar(&sigFlag, "sig", "all", "comma separated signature algorithms to test, \"all\" or \"none\"")
	flag.StringVar(&formatFlag, "format", "text", "output format: text, json, cbor, msgpack or yaml")
	flag.StringVar(&historyFlag, "history", "", "store results in the given history database")
	flag.StringVar(&metricsFlag, "metrics", "", "write prometheus metrics to the given file, \"-\" for stdout")
	flag.StringVar(&seedFlag, "seed", "", "hex seed for a deterministic entropy source (testing only)")
	flag.BoolVar(&listFlag, "list", false, "list available algorithms and exit")
	flag.BoolVar(&printConfigFlag, "print-config", false, "print all configuration options and exit")

	modules.Register("cli", prep, nil, nil, "pqc", "metrics")
}

func main() {
	info.Set("pqbase", "0.1.0", "GPLv3")
	info.Highlight(pqc.BackendModule)

	os.Exit(run.Run(selfTest))
}

func prep() error {
	if formatFlag != "text" {
		format, err := dsd.ParseSerializationFormat(formatFlag)
		if err != nil {
			return err
		}
		outputFormat = format
	}

	if seedFlag != "" {
		seed, err := hex.DecodeString(seedFlag)
		if err != nil {
			return fmt.Errorf("invalid seed: %w", err)
		}
		if len(seed) == 0 {
			return fmt.Errorf("invalid seed: must not be empty")
		}
		rng.SetSource(rng.NewSeededSource(seed))
	}

	if printConfigFlag {
		data, err := config.ExportOptions()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return modules.ErrCleanExit
	}

	return nil
}

func selfTest(ctx context.Context) error {
	if !pqcinit.IsReady() {
		// automatic initialization is switched off
		if err := pqcinit.Initialize(); err != nil {
			return err
		}
	}

	lib, err := pqcinit.Library()
	if err != nil {
		return err
	}

	if listFlag {
		listAlgorithms(lib)
		return nil
	}

	h, err := pqcinit.NewHarness()
	if err != nil {
		return err
	}

	results, runErr := h.Run(ctx,
		selectAlgorithms(kemFlag, lib.EnabledKEMs()),
		selectAlgorithms(sigFlag, lib.EnabledSignatures()),
	)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := output(results); err != nil {
		return err
	}
	return runErr
}

func selectAlgorithms(flagValue string, enabled []string) []string {
	switch flagValue {
	case "all", "":
		return enabled
	case "none":
		return nil
	}

	var names []string
	for _, name := range strings.Split(flagValue, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func listAlgorithms(lib *pqc.Library) {
	fmt.Println("KEM algorithms:")
	for _, name := range lib.KEMAlgorithms() {
		fmt.Printf("  %s%s\n", name, disabledNote(lib.IsKEMEnabled(name)))
	}
	fmt.Println("Signature algorithms:")
	for _, name := range lib.SignatureAlgorithms() {
		fmt.Printf("  %s%s\n", name, disabledNote(lib.IsSignatureEnabled(name)))
	}
}

func disabledNote(enabled bool) string {
	if enabled {
		return ""
	}
	return " (disabled)"
}

func output(results []*selftest.Result) error {
	if formatFlag == "text" {
		if err := report.Summary(os.Stdout, results); err != nil {
			return err
		}
	} else {
		if err := report.Dump(os.Stdout, report.New(results), outputFormat); err != nil {
			return err
		}
	}

	if historyFlag != "" {
		store, err := report.OpenStore(historyFlag)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warningf("main: failed to close history store: %s", err)
			}
		}()
		if err := store.Save(results...); err != nil {
			return fmt.Errorf("failed to save results: %w", err)
		}
		log.Infof("main: saved %d results to %s", len(results), historyFlag)
	}

	switch metricsFlag {
	case "":
	case "-":
		metrics.WritePrometheus(os.Stdout, false)
	default:
		f, err := os.Create(metricsFlag)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
		metrics.WritePrometheus(f, true)
	}

	return nil
}
