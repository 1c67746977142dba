package rng

import (
	"crypto/rand"
	"fmt"
)

// SystemSource draws from the operating system's RNG, which is backed by the
// hardware RNG where the platform has one.
type SystemSource struct{}

// Fill fills b with random bytes from the operating system.
func (SystemSource) Fill(b []byte) {
	if err := fillFromKernel(b); err == nil {
		return
	}

	// fall back to the generic implementation
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("rng: system entropy source unavailable: %s", err))
	}
}
