package rng

import (
	"context"
)

// osFeeder feeds entropy from the kernel.
func (fs *FortunaSource) osFeeder(ctx context.Context) error {
	feeder := fs.NewFeeder()
	for {
		minEntropyBytes := int(fs.MinFeedEntropy)/8 + 1
		if minEntropyBytes < 32 {
			minEntropyBytes = 64
		}

		osEntropy := make([]byte, minEntropyBytes)
		SystemSource{}.Fill(osEntropy)

		if err := feeder.SupplyEntropy(ctx, osEntropy, minEntropyBytes*8); err != nil {
			return nil //nolint:nilerr // canceled
		}
	}
}
