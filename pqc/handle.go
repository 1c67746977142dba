package pqc

import "fmt"

func checkSize(what string, b []byte, size int) error {
	if len(b) != size {
		return fmt.Errorf("%w: %s must be %d bytes, got %d", ErrInvalidBuffer, what, size, len(b))
	}
	return nil
}

// KEM is a handle bound to one KEM algorithm.
type KEM struct {
	scheme KEMScheme
	rand   Randomness
}

// Name returns the algorithm name.
func (k *KEM) Name() string { return k.scheme.Name() }

// PublicKeySize returns the public key size in bytes.
func (k *KEM) PublicKeySize() int { return k.scheme.PublicKeySize() }

// SecretKeySize returns the secret key size in bytes.
func (k *KEM) SecretKeySize() int { return k.scheme.SecretKeySize() }

// CiphertextSize returns the ciphertext size in bytes.
func (k *KEM) CiphertextSize() int { return k.scheme.CiphertextSize() }

// SharedSecretSize returns the shared secret size in bytes.
func (k *KEM) SharedSecretSize() int { return k.scheme.SharedSecretSize() }

// Keypair generates a key pair into pk and sk.
func (k *KEM) Keypair(pk, sk []byte) error {
	if err := checkSize("public key", pk, k.PublicKeySize()); err != nil {
		return err
	}
	if err := checkSize("secret key", sk, k.SecretKeySize()); err != nil {
		return err
	}
	return k.scheme.Keypair(k.rand, pk, sk)
}

// Encapsulate writes a ciphertext and the encapsulated shared secret for pk.
func (k *KEM) Encapsulate(ct, ss, pk []byte) error {
	if err := checkSize("ciphertext", ct, k.CiphertextSize()); err != nil {
		return err
	}
	if err := checkSize("shared secret", ss, k.SharedSecretSize()); err != nil {
		return err
	}
	if err := checkSize("public key", pk, k.PublicKeySize()); err != nil {
		return err
	}
	return k.scheme.Encapsulate(k.rand, ct, ss, pk)
}

// Decapsulate recovers the shared secret from ct using sk.
func (k *KEM) Decapsulate(ss, ct, sk []byte) error {
	if err := checkSize("shared secret", ss, k.SharedSecretSize()); err != nil {
		return err
	}
	if err := checkSize("ciphertext", ct, k.CiphertextSize()); err != nil {
		return err
	}
	if err := checkSize("secret key", sk, k.SecretKeySize()); err != nil {
		return err
	}
	return k.scheme.Decapsulate(ss, ct, sk)
}

// Signature is a handle bound to one signature algorithm.
type Signature struct {
	scheme SignatureScheme
	rand   Randomness
}

// Name returns the algorithm name.
func (s *Signature) Name() string { return s.scheme.Name() }

// PublicKeySize returns the public key size in bytes.
func (s *Signature) PublicKeySize() int { return s.scheme.PublicKeySize() }

// SecretKeySize returns the secret key size in bytes.
func (s *Signature) SecretKeySize() int { return s.scheme.SecretKeySize() }

// MaxSignatureSize returns the maximum signature size in bytes.
func (s *Signature) MaxSignatureSize() int { return s.scheme.MaxSignatureSize() }

// Keypair generates a key pair into pk and sk.
func (s *Signature) Keypair(pk, sk []byte) error {
	if err := checkSize("public key", pk, s.PublicKeySize()); err != nil {
		return err
	}
	if err := checkSize("secret key", sk, s.SecretKeySize()); err != nil {
		return err
	}
	return s.scheme.Keypair(s.rand, pk, sk)
}

// Sign signs msg with sk into sig and returns the signature length.
func (s *Signature) Sign(sig, msg, sk []byte) (int, error) {
	if err := checkSize("signature", sig, s.MaxSignatureSize()); err != nil {
		return 0, err
	}
	if err := checkSize("secret key", sk, s.SecretKeySize()); err != nil {
		return 0, err
	}

	n, err := s.scheme.Sign(s.rand, sig, msg, sk)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > len(sig) {
		return 0, fmt.Errorf("%w: scheme returned signature length %d", ErrInvalidBuffer, n)
	}
	return n, nil
}

// Verify checks sig over msg with pk. An invalid signature yields ErrVerificationFailed.
func (s *Signature) Verify(msg, sig, pk []byte) error {
	if len(sig) == 0 || len(sig) > s.MaxSignatureSize() {
		return fmt.Errorf("%w: signature length %d", ErrInvalidBuffer, len(sig))
	}
	if err := checkSize("public key", pk, s.PublicKeySize()); err != nil {
		return err
	}
	return s.scheme.Verify(msg, sig, pk)
}
