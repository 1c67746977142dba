// Package selftest runs known-answer-free round trips through the key
// encapsulation and signature algorithms of a pqc.Library.
//
// A KEM round trip generates a key pair, encapsulates a shared secret and
// decapsulates it again; both secrets must be equal. A signature round trip
// signs a random message, verifies the signature and then checks that a
// signature overwritten with random bytes is rejected.
//
// Every run produces a Result. Secret keys and shared secrets are wiped
// before a run returns, regardless of its outcome.
package selftest
