//go:build !linux

package rng

import "errors"

var errNoKernelRNG = errors.New("no direct kernel rng access on this platform")

func fillFromKernel(_ []byte) error {
	return errNoKernelRNG
}
