// Package report renders and stores self-test results.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/safing/pqbase/selftest"
)

var summaryStages = []selftest.Stage{
	selftest.StageKeypair,
	selftest.StageEncapsulate,
	selftest.StageDecapsulate,
	selftest.StageSign,
	selftest.StageVerify,
	selftest.StageVerifyCorrupted,
}

// Summary writes a human readable result table and a performance summary.
func Summary(w io.Writer, results []*selftest.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "RESULT\tKIND\tALGORITHM\tSTATUS\tDURATION")
	var passed int
	for _, res := range results {
		verdict := "FAIL"
		if res.OK() {
			verdict = "PASS"
			passed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", verdict, res.Kind, res.Algorithm, res.Status(), round(res.Duration))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// performance summary
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance summary:")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"ALGORITHM"}
	for _, stage := range summaryStages {
		header = append(header, strings.ToUpper(string(stage)))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, res := range results {
		if !res.OK() {
			continue
		}
		row := []string{res.Algorithm}
		for _, stage := range summaryStages {
			if d, ok := res.Timings[stage]; ok {
				row = append(row, round(d).String())
			} else {
				row = append(row, "-")
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	_, err := fmt.Fprintf(w, "%d of %d round trips passed\n", passed, len(results))
	return err
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}
