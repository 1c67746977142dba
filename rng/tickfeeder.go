package rng

import (
	"context"
	"time"
)

func (fs *FortunaSource) tickDuration() time.Duration {
	// be ready in 1/10 of the reseed interval
	msecsAvailable := fs.ReseedAfter.Milliseconds() / 10
	// one tick generates 0.125 bits of entropy
	ticksNeeded := fs.MinFeedEntropy * 8
	if ticksNeeded <= 0 {
		ticksNeeded = DefaultMinFeedEntropy * 8
	}

	tickMsecs := msecsAvailable / ticksNeeded
	// use a minimum of 10 msecs per tick
	if tickMsecs < 10 {
		tickMsecs = 10
	}
	return time.Duration(tickMsecs) * time.Millisecond
}

// tickFeeder adds the least significant bit of the current nanosecond time to
// its pool every time it ticks. The busier the program, the less precisely the
// scheduler wakes the goroutine.
func (fs *FortunaSource) tickFeeder(ctx context.Context) error {
	var value int64
	var pushes int
	feeder := fs.NewFeeder()

	for {
		select {
		case <-time.After(fs.tickDuration()):
			value = (value << 1) | (time.Now().UnixNano() % 2)
			pushes++
			if pushes >= 64 {
				if err := feeder.SupplyEntropyAsInt(ctx, value, 8); err != nil {
					return nil //nolint:nilerr // canceled
				}
				pushes = 0
			}

		case <-ctx.Done():
			return nil
		}
	}
}
