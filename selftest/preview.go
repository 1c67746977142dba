package selftest

import (
	"github.com/safing/pqbase/utils"
)

// previewSize is how many leading bytes of key material are shown.
const previewSize = 32

func preview(data []byte) string {
	if len(data) <= 16 {
		return utils.SafeFirst16Bytes(data)
	}

	end := previewSize
	if len(data) < end {
		end = len(data)
	}
	return utils.SafeFirst16Bytes(data[:16]) + " | " + utils.SafeFirst16Bytes(data[16:end])
}
