package dsd

import (
	"errors"
	"fmt"
	"strings"
)

// Errors.
var (
	ErrIncompatibleFormat = errors.New("dsd: format is incompatible with operation")
	ErrNoMoreSpace        = errors.New("dsd: no more space left after reading dsd type")
	ErrUnknownFormat      = errors.New("dsd: format is unknown")
)

// SerializationFormat identifies an encoding. Its value is the identifier
// byte in front of dumped data.
type SerializationFormat uint8

// Serialization formats.
const (
	AUTO    SerializationFormat = 0
	CBOR    SerializationFormat = 'C'
	JSON    SerializationFormat = 'J'
	MsgPack SerializationFormat = 'M'
	YAML    SerializationFormat = 'Y'
)

// CompressionFormat identifies a compression.
type CompressionFormat uint8

// Compression formats.
const (
	AutoCompress CompressionFormat = 0
	GZIP         CompressionFormat = 'Z'
)

// Defaults used for AUTO.
var (
	DefaultSerializationFormat = JSON
	DefaultCompressionFormat   = GZIP
)

var formatNames = map[SerializationFormat][]string{
	CBOR:    {"cbor"},
	JSON:    {"json"},
	MsgPack: {"msgpack", "mp"},
	YAML:    {"yaml", "yml"},
}

// ValidateSerializationFormat returns the concrete format and whether it
// is supported. AUTO resolves to DefaultSerializationFormat.
func (format SerializationFormat) ValidateSerializationFormat() (SerializationFormat, bool) {
	if format == AUTO {
		return DefaultSerializationFormat, true
	}
	_, ok := formatNames[format]
	return format, ok
}

// ValidateCompressionFormat returns the concrete compression and whether
// it is supported. AutoCompress resolves to DefaultCompressionFormat.
func (format CompressionFormat) ValidateCompressionFormat() (CompressionFormat, bool) {
	if format == AutoCompress {
		return DefaultCompressionFormat, true
	}
	return format, format == GZIP
}

func (format SerializationFormat) String() string {
	if format == AUTO {
		return "auto"
	}
	if names, ok := formatNames[format]; ok {
		return names[0]
	}
	return fmt.Sprintf("unknown(%d)", uint8(format))
}

// ParseSerializationFormat returns the format with the given name.
func ParseSerializationFormat(name string) (SerializationFormat, error) {
	name = strings.ToLower(name)
	if name == "" || name == "auto" {
		return AUTO, nil
	}
	for format, names := range formatNames {
		for _, n := range names {
			if n == name {
				return format, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}
