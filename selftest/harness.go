package selftest

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/metrics"
	"github.com/safing/pqbase/pqc"
)

// Defaults.
const (
	DefaultMaxBufferSize = 1 << 20
	DefaultMessageLength = 100
)

// Filler fills buffers with random bytes.
type Filler interface {
	Fill(b []byte) error
}

// Options configures a Harness.
type Options struct {
	// MaxBufferSize is the largest buffer a run may allocate.
	MaxBufferSize int
	// MessageLength is the length of the signed test message.
	MessageLength int
	// Verbose logs key material previews and per stage timings.
	Verbose bool
}

// Harness runs round trips against a library.
type Harness struct {
	lib    *pqc.Library
	filler Filler
	opts   Options
}

// New returns a harness for lib. The test message is drawn from filler.
func New(lib *pqc.Library, filler Filler, opts Options) *Harness {
	if opts.MaxBufferSize <= 0 {
		opts.MaxBufferSize = DefaultMaxBufferSize
	}
	if opts.MessageLength <= 0 {
		opts.MessageLength = DefaultMessageLength
	}

	return &Harness{
		lib:    lib,
		filler: filler,
		opts:   opts,
	}
}

func (h *Harness) finish(res *Result) {
	res.Duration = time.Since(res.Started)

	for stage, d := range res.Timings {
		metrics.ObserveStage(string(res.Kind), res.Algorithm, string(stage), d)
	}
	metrics.RecordRoundTrip(string(res.Kind), res.Algorithm, res.Status())

	if res.OK() {
		log.Infof("selftest: %s %s round trip successful (%s)", res.Kind, res.Algorithm, res.Duration)
	} else {
		log.Errorf("selftest: %s %s round trip failed at %s: %s", res.Kind, res.Algorithm, res.Stage, res.Err)
	}

	if h.opts.Verbose {
		for _, stage := range stageOrder {
			if d, ok := res.Timings[stage]; ok {
				log.Debugf("selftest: %s %s: %s took %s", res.Kind, res.Algorithm, stage, d)
			}
		}
	}
}

var stageOrder = []Stage{
	StageFillMessage,
	StageKeypair,
	StageEncapsulate,
	StageDecapsulate,
	StageSign,
	StageVerify,
	StageCorrupt,
	StageVerifyCorrupted,
}

func (h *Harness) preview(res *Result, what string, data []byte) {
	if h.opts.Verbose {
		log.Debugf("selftest: %s %s: %s (%d bytes): %s", res.Kind, res.Algorithm, what, len(data), preview(data))
	}
}

// RunAll runs all enabled KEM algorithms, then all enabled signature
// algorithms. The returned error aggregates all failures.
func (h *Harness) RunAll() ([]*Result, error) {
	return h.Run(context.Background(), h.lib.EnabledKEMs(), h.lib.EnabledSignatures())
}

// Run runs the named KEM algorithms, then the named signature algorithms.
// The returned error aggregates all failures. If ctx is canceled between two
// round trips, Run returns the results so far and the context error.
func (h *Harness) Run(ctx context.Context, kems, signatures []string) ([]*Result, error) {
	var (
		results []*Result
		errs    *multierror.Error
	)

	log.Infof("selftest: running %d KEM and %d signature round trips", len(kems), len(signatures))

	add := func(res *Result) {
		results = append(results, res)
		if !res.OK() {
			errs = multierror.Append(errs, fmt.Errorf("%s %s: %w", res.Kind, res.Algorithm, res.Err))
		}
	}

	for _, name := range kems {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		add(h.RunKEM(name))
	}
	for _, name := range signatures {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		add(h.RunSignature(name))
	}

	return results, errs.ErrorOrNil()
}
