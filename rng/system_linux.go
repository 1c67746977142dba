package rng

import (
	"errors"

	"golang.org/x/sys/unix"
)

func fillFromKernel(b []byte) error {
	for len(b) > 0 {
		n, err := unix.Getrandom(b, 0)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return err
		case n <= 0:
			return errors.New("getrandom returned no data")
		}
		b = b[n:]
	}
	return nil
}
