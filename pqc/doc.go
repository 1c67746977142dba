// Package pqc is a facade over post-quantum key encapsulation and signature
// schemes.
//
// A Library is created with the randomness provider it must use; every
// random byte a scheme consumes is drawn through that provider. Algorithms
// are looked up by name and operate on caller allocated buffers sized by the
// returned handle.
//
// The default schemes are backed by github.com/cloudflare/circl:
//
//	KEM:        ML-KEM-512, ML-KEM-768, ML-KEM-1024, Kyber768
//	Signatures: ML-DSA-44, ML-DSA-65, ML-DSA-87, Dilithium3
package pqc
