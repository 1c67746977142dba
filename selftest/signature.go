package selftest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/safing/pqbase/log"
	"github.com/safing/pqbase/pqc"
)

// maxCorruptionAttempts bounds redrawing a replacement that equals the original signature.
const maxCorruptionAttempts = 3

// RunSignature runs a signature round trip with the named algorithm,
// including the check that a corrupted signature is rejected.
func (h *Harness) RunSignature(name string) (res *Result) {
	res = newResult(KindSignature, name)
	defer h.finish(res)

	log.Infof("selftest: testing signature %s", name)

	s, err := h.lib.NewSignature(name)
	if err != nil {
		return res.fail(StageInstantiate, OperationFailed, err)
	}

	bufs := newBufferSet(h.opts.MaxBufferSize)
	defer bufs.release()

	pk, err := bufs.alloc("public key", s.PublicKeySize(), false)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	sk, err := bufs.alloc("secret key", s.SecretKeySize(), true)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	sig, err := bufs.alloc("signature", s.MaxSignatureSize(), false)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	original, err := bufs.alloc("signature copy", s.MaxSignatureSize(), false)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	msg, err := bufs.alloc("message", h.opts.MessageLength, false)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}

	res.Sizes["public_key"] = len(pk)
	res.Sizes["secret_key"] = len(sk)
	res.Sizes["max_signature"] = len(sig)
	res.Sizes["message"] = len(msg)
	log.Debugf("selftest: signature %s: public key %d, secret key %d, max signature %d bytes",
		name, len(pk), len(sk), len(sig))

	if err := res.timed(StageFillMessage, func() error { return h.filler.Fill(msg) }); err != nil {
		return res.fail(StageFillMessage, OperationFailed, fmt.Errorf("%w: %w", ErrRandomnessFailed, err))
	}

	if err := res.timed(StageKeypair, func() error { return s.Keypair(pk, sk) }); err != nil {
		return res.fail(StageKeypair, OperationFailed, fmt.Errorf("%w: %w", ErrKeypairFailed, err))
	}
	h.preview(res, "public key", pk)

	var sigLen int
	err = res.timed(StageSign, func() (err error) {
		sigLen, err = s.Sign(sig, msg, sk)
		return err
	})
	if err != nil {
		return res.fail(StageSign, OperationFailed, fmt.Errorf("%w: %w", ErrSigningFailed, err))
	}
	res.Sizes["signature"] = sigLen
	h.preview(res, "signature", sig[:sigLen])

	err = res.timed(StageVerify, func() error { return s.Verify(msg, sig[:sigLen], pk) })
	if err != nil {
		return res.fail(StageVerify, OperationFailed, fmt.Errorf("%w: %w", ErrValidSignatureRejected, err))
	}

	// negative case: replace the signature with random bytes of the same length
	copy(original, sig[:sigLen])
	err = res.timed(StageCorrupt, func() error {
		for i := 0; i < maxCorruptionAttempts; i++ {
			if err := h.lib.Randombytes(sig[:sigLen]); err != nil {
				return err
			}
			if !bytes.Equal(sig[:sigLen], original[:sigLen]) {
				return nil
			}
		}
		return errors.New("replacement signature always equals the original")
	})
	if err != nil {
		return res.fail(StageCorrupt, OperationFailed, fmt.Errorf("%w: %w", ErrRandomnessFailed, err))
	}

	err = res.timed(StageVerifyCorrupted, func() error { return s.Verify(msg, sig[:sigLen], pk) })
	switch {
	case err == nil:
		return res.fail(StageVerifyCorrupted, OperationFailed, ErrCorruptedSignatureAccepted)
	case !errors.Is(err, pqc.ErrVerificationFailed):
		log.Warningf("selftest: signature %s: corrupted signature rejected with unexpected error: %s", name, err)
	}
	log.Debugf("selftest: signature %s: corrupted signature correctly rejected", name)

	return res
}
