package pqc

import "errors"

// Errors.
var (
	ErrUnknownAlgorithm   = errors.New("unknown or disabled algorithm")
	ErrInvalidBuffer      = errors.New("invalid buffer size")
	ErrVerificationFailed = errors.New("signature verification failed")
	ErrNoRandomness       = errors.New("no randomness provider")
)
