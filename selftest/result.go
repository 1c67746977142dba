package selftest

import (
	"errors"
	"time"

	"github.com/gofrs/uuid"

	"github.com/safing/pqbase/pqc"
	"github.com/safing/pqbase/rng"
)

// Kind is the algorithm family of a run.
type Kind string

// Kinds.
const (
	KindKEM       Kind = "kem"
	KindSignature Kind = "signature"
)

// Outcome is the overall result of a run.
type Outcome string

// Outcomes.
const (
	Success         Outcome = "success"
	Mismatch        Outcome = "mismatch"
	OperationFailed Outcome = "operation_failed"
)

// Stage is a step of a round trip.
type Stage string

// Stages.
const (
	StageInstantiate     Stage = "instantiate"
	StageAllocate        Stage = "allocate"
	StageFillMessage     Stage = "fill_message"
	StageKeypair         Stage = "keypair"
	StageEncapsulate     Stage = "encapsulate"
	StageDecapsulate     Stage = "decapsulate"
	StageCompare         Stage = "compare"
	StageSign            Stage = "sign"
	StageVerify          Stage = "verify"
	StageCorrupt         Stage = "corrupt"
	StageVerifyCorrupted Stage = "verify_corrupted"
)

// Result describes a single round trip.
type Result struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Algorithm string        `json:"algorithm"`
	Outcome   Outcome       `json:"outcome"`
	Stage     Stage         `json:"stage,omitempty"`
	Label     string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration"`

	Timings map[Stage]time.Duration `json:"timings"`
	Sizes   map[string]int          `json:"sizes"`

	// Err holds the failure, wrapping one of the package errors.
	Err error `json:"-"`
}

func newResult(kind Kind, algorithm string) *Result {
	res := &Result{
		Kind:      kind,
		Algorithm: algorithm,
		Outcome:   Success,
		Label:     string(Success),
		Started:   time.Now(),
		Timings:   make(map[Stage]time.Duration),
		Sizes:     make(map[string]int),
	}
	if id, err := uuid.NewV4(); err == nil {
		res.ID = id.String()
	}
	return res
}

// OK reports whether the run succeeded.
func (res *Result) OK() bool {
	return res.Outcome == Success
}

func (res *Result) fail(stage Stage, outcome Outcome, err error) *Result {
	res.Outcome = outcome
	res.Stage = stage
	res.Err = err
	res.Error = err.Error()
	res.Label = statusLabel(err)
	return res
}

// timed runs fn and records its duration for stage.
func (res *Result) timed(stage Stage, fn func() error) error {
	start := time.Now()
	err := fn()
	res.Timings[stage] = time.Since(start)
	return err
}

// Status returns a label distinguishing every kind of failure.
func (res *Result) Status() string {
	if res.Label == "" {
		return string(Success)
	}
	return res.Label
}

func statusLabel(err error) string {
	switch {
	case err == nil:
		return string(Success)
	case errors.Is(err, pqc.ErrUnknownAlgorithm):
		return "unknown_algorithm"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, ErrKeypairFailed):
		return "keypair_failed"
	case errors.Is(err, ErrEncapsulationFailed):
		return "encapsulation_failed"
	case errors.Is(err, ErrDecapsulationFailed):
		return "decapsulation_failed"
	case errors.Is(err, ErrSigningFailed):
		return "signing_failed"
	case errors.Is(err, ErrMismatch):
		return "mismatch"
	case errors.Is(err, ErrValidSignatureRejected):
		return "valid_signature_rejected"
	case errors.Is(err, ErrCorruptedSignatureAccepted):
		return "corrupted_signature_accepted"
	case errors.Is(err, ErrRandomnessFailed):
		return "randomness_failed"
	case errors.Is(err, rng.ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "failed"
	}
}
