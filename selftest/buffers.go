package selftest

import (
	"fmt"

	"github.com/safing/pqbase/pqc"
)

// bufferSet owns the buffers of one run. Sensitive buffers are wiped on
// release.
type bufferSet struct {
	maxSize   int
	sensitive [][]byte
}

func newBufferSet(maxSize int) *bufferSet {
	return &bufferSet{maxSize: maxSize}
}

func (bs *bufferSet) alloc(name string, size int, sensitive bool) ([]byte, error) {
	if size < 0 || (bs.maxSize > 0 && size > bs.maxSize) {
		return nil, fmt.Errorf("%w: %s needs %d bytes, limit is %d", ErrResourceExhausted, name, size, bs.maxSize)
	}

	b := make([]byte, size)
	if sensitive {
		bs.sensitive = append(bs.sensitive, b)
	}
	return b, nil
}

func (bs *bufferSet) release() {
	for _, b := range bs.sensitive {
		pqc.Wipe(b)
	}
	bs.sensitive = nil
}
