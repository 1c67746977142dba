package rng

import (
	"errors"
	"fmt"

	"github.com/tevino/abool"

	"github.com/safing/pqbase/log"
)

// selfCheckSize is the size of the sample drawn after registration.
const selfCheckSize = 8

// Errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotRegistered   = errors.New("no randomness provider registered")
	ErrSelfCheckFailed = errors.New("randomness provider self-check failed")
)

// Registration describes whether an Adapter has been registered as the
// randomness provider.
type Registration uint8

// Registration states.
const (
	Unregistered Registration = iota
	Registered
)

func (r Registration) String() string {
	switch r {
	case Unregistered:
		return "unregistered"
	case Registered:
		return "registered"
	default:
		return "unknown"
	}
}

// Adapter exposes an EntropySource as the randomness provider of the
// cryptography library. Registration happens exactly once and never reverts.
type Adapter struct {
	source     EntropySource
	registered *abool.AtomicBool
	verbose    *abool.AtomicBool
	initErr    error
}

// NewAdapter returns an unregistered Adapter drawing from source.
func NewAdapter(source EntropySource) *Adapter {
	return &Adapter{
		source:     source,
		registered: abool.New(),
		verbose:    abool.New(),
	}
}

// SetVerbose enables trace logging of every fill.
func (a *Adapter) SetVerbose(on bool) {
	a.verbose.SetTo(on)
}

// Fill fills b entirely with bytes from the entropy source.
// A nil or empty b is rejected with ErrInvalidArgument.
func (a *Adapter) Fill(b []byte) error {
	if len(b) == 0 {
		log.Errorf("rng: invalid argument: buffer is nil or empty")
		return ErrInvalidArgument
	}

	a.source.Fill(b)

	if a.verbose.IsSet() {
		log.Tracef("rng: generated %d random bytes", len(b))
	}
	return nil
}

// Randombytes is the provider entry point consumed by the cryptography
// library. It fails with ErrNotRegistered until Initialize has been called.
func (a *Adapter) Randombytes(b []byte) error {
	if !a.registered.IsSet() {
		return ErrNotRegistered
	}
	return a.Fill(b)
}

// Registration returns the current registration state.
func (a *Adapter) Registration() Registration {
	if a.registered.IsSet() {
		return Registered
	}
	return Unregistered
}

// Initialize registers the adapter as the randomness provider and checks it
// by drawing a sample. Subsequent calls do nothing and return the result of
// the first call. Callers must not race Initialize.
func (a *Adapter) Initialize() error {
	if !a.registered.SetToIf(false, true) {
		log.Debug("rng: randomness provider already registered")
		return a.initErr
	}
	log.Info("rng: registering entropy source as randomness provider")

	sample := make([]byte, selfCheckSize)
	if err := a.selfCheck(sample); err != nil {
		a.initErr = fmt.Errorf("%w: %w", ErrSelfCheckFailed, err)
		log.Errorf("rng: %s", a.initErr)
		return a.initErr
	}

	log.Info("rng: randomness provider initialized successfully")
	return nil
}

func (a *Adapter) selfCheck(sample []byte) (err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("entropy source panicked: %v", x)
		}
	}()

	return a.Randombytes(sample)
}
