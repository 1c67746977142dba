package selftest

import "errors"

// Errors.
var (
	ErrResourceExhausted          = errors.New("buffer allocation exceeds limit")
	ErrKeypairFailed              = errors.New("key pair generation failed")
	ErrEncapsulationFailed        = errors.New("encapsulation failed")
	ErrDecapsulationFailed        = errors.New("decapsulation failed")
	ErrSigningFailed              = errors.New("signing failed")
	ErrMismatch                   = errors.New("shared secrets do not match")
	ErrValidSignatureRejected     = errors.New("valid signature was rejected")
	ErrCorruptedSignatureAccepted = errors.New("corrupted signature was accepted")
	ErrRandomnessFailed           = errors.New("failed to draw random bytes")
)
