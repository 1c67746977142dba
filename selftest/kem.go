package selftest

import (
	"bytes"
	"fmt"

	"github.com/safing/pqbase/log"
)

// RunKEM runs a key encapsulation round trip with the named algorithm.
func (h *Harness) RunKEM(name string) (res *Result) {
	res = newResult(KindKEM, name)
	defer h.finish(res)

	log.Infof("selftest: testing KEM %s", name)

	k, err := h.lib.NewKEM(name)
	if err != nil {
		return res.fail(StageInstantiate, OperationFailed, err)
	}

	bufs := newBufferSet(h.opts.MaxBufferSize)
	defer bufs.release()

	pk, err := bufs.alloc("public key", k.PublicKeySize(), false)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	sk, err := bufs.alloc("secret key", k.SecretKeySize(), true)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	ct, err := bufs.alloc("ciphertext", k.CiphertextSize(), false)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	ssEncap, err := bufs.alloc("shared secret", k.SharedSecretSize(), true)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}
	ssDecap, err := bufs.alloc("shared secret", k.SharedSecretSize(), true)
	if err != nil {
		return res.fail(StageAllocate, OperationFailed, err)
	}

	res.Sizes["public_key"] = len(pk)
	res.Sizes["secret_key"] = len(sk)
	res.Sizes["ciphertext"] = len(ct)
	res.Sizes["shared_secret"] = len(ssEncap)
	log.Debugf("selftest: KEM %s: public key %d, secret key %d, ciphertext %d, shared secret %d bytes",
		name, len(pk), len(sk), len(ct), len(ssEncap))

	if err := res.timed(StageKeypair, func() error { return k.Keypair(pk, sk) }); err != nil {
		return res.fail(StageKeypair, OperationFailed, fmt.Errorf("%w: %w", ErrKeypairFailed, err))
	}
	h.preview(res, "public key", pk)

	if err := res.timed(StageEncapsulate, func() error { return k.Encapsulate(ct, ssEncap, pk) }); err != nil {
		return res.fail(StageEncapsulate, OperationFailed, fmt.Errorf("%w: %w", ErrEncapsulationFailed, err))
	}
	h.preview(res, "ciphertext", ct)

	if err := res.timed(StageDecapsulate, func() error { return k.Decapsulate(ssDecap, ct, sk) }); err != nil {
		return res.fail(StageDecapsulate, OperationFailed, fmt.Errorf("%w: %w", ErrDecapsulationFailed, err))
	}

	if !bytes.Equal(ssEncap, ssDecap) {
		return res.fail(StageCompare, Mismatch, ErrMismatch)
	}
	h.preview(res, "shared secret", ssEncap)

	return res
}
