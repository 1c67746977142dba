package rng

import (
	"context"
	"encoding/binary"

	"github.com/tevino/abool"
)

// A Feeder gathers entropy and passes it to its FortunaSource once enough
// has been collected. A Feeder must only be used by a single goroutine.
type Feeder struct {
	source       *FortunaSource
	buffer       []byte
	entropy      int64
	needsEntropy *abool.AtomicBool
}

// NewFeeder returns a new entropy Feeder for the source.
func (fs *FortunaSource) NewFeeder() *Feeder {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.feed == nil {
		fs.feed = make(chan []byte)
	}
	return &Feeder{
		source:       fs,
		needsEntropy: abool.NewBool(true),
	}
}

// NeedsEntropy returns whether the feeder is currently gathering entropy.
func (f *Feeder) NeedsEntropy() bool {
	return f.needsEntropy.IsSet()
}

// SupplyEntropy adds data with the given entropy in bits. Once enough entropy
// has been gathered, it blocks until the source takes it or ctx is done.
func (f *Feeder) SupplyEntropy(ctx context.Context, data []byte, entropy int) error {
	f.buffer = append(f.buffer, data...)
	f.entropy += int64(entropy)
	if f.entropy < f.source.MinFeedEntropy {
		return nil
	}

	f.needsEntropy.UnSet()
	defer f.needsEntropy.Set()

	select {
	case f.source.feed <- f.buffer:
	case <-ctx.Done():
		return ctx.Err()
	}
	f.buffer = nil
	f.entropy = 0
	return nil
}

// SupplyEntropyAsInt supplies n as entropy, see SupplyEntropy.
func (f *Feeder) SupplyEntropyAsInt(ctx context.Context, n int64, entropy int) error {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(n))
	return f.SupplyEntropy(ctx, b, entropy)
}
