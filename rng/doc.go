// Package rng binds an entropy source to the randomness consumers of the
// post-quantum cryptography library.
//
// An EntropySource fills buffers with cryptographically secure random bytes.
// Available sources:
// - SystemSource: the kernel RNG (getrandom on Linux)
// - FortunaSource: a fortuna CSPRNG (github.com/seehuhn/fortuna) fed by the
//   OS RNG and entropy gathered by context switching
// - NewSeededSource: a deterministic fortuna generator, for testing only
//
// The Adapter registers a source as the randomness provider and performs a
// self-check before any cryptographic operation may draw from it.
package rng
