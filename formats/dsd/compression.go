package dsd

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// DumpAndCompress dumps t in format and compresses the result. The
// compression identifier byte is prepended.
func DumpAndCompress(t interface{}, format SerializationFormat, compression CompressionFormat) ([]byte, error) {
	compression, ok := compression.ValidateCompressionFormat()
	if !ok {
		return nil, ErrIncompatibleFormat
	}
	data, err := Dump(t, format)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(compression))
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("dsd: failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("dsd: failed to compress: %w", err)
	}
	return buf.Bytes(), nil
}

// DecompressAndLoad reverses DumpAndCompress and returns the serialization
// format that was found.
func DecompressAndLoad(data []byte, t interface{}) (SerializationFormat, error) {
	if len(data) < 2 {
		return 0, ErrNoMoreSpace
	}
	if CompressionFormat(data[0]) != GZIP {
		return 0, fmt.Errorf("%w: compression %d", ErrUnknownFormat, data[0])
	}

	zr, err := gzip.NewReader(bytes.NewReader(data[1:]))
	if err != nil {
		return 0, fmt.Errorf("dsd: failed to decompress: %w", err)
	}
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return 0, fmt.Errorf("dsd: failed to decompress: %w", err)
	}
	if err := zr.Close(); err != nil {
		return 0, fmt.Errorf("dsd: failed to decompress: %w", err)
	}

	return Load(decompressed, t)
}
