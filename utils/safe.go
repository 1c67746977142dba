package utils

import (
	"encoding/hex"
	"strings"
)

// SafeFirst16Bytes renders up to the first 16 bytes of data as a hex dump
// line, suitable for logs.
func SafeFirst16Bytes(data []byte) string {
	if len(data) == 0 {
		return "<empty>"
	}

	return strings.TrimPrefix(
		strings.SplitN(hex.Dump(data), "\n", 2)[0],
		"00000000  ",
	)
}
