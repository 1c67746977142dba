// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package dsd

// dynamic structured data
// check here for some benchmarks: https://github.com/alecthomas/go_serialization_benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/ghodss/yaml"
	"github.com/vmihailenco/msgpack/v5"
)

// cborEncMode keeps the full time precision.
var cborEncMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Load loads an dsd structured data blob into the given interface.
func Load(data []byte, t interface{}) (SerializationFormat, error) {
	if len(data) < 2 {
		return 0, ErrNoMoreSpace
	}

	format := SerializationFormat(data[0])
	if _, ok := format.ValidateSerializationFormat(); !ok || format == AUTO {
		return 0, ErrUnknownFormat
	}

	return format, LoadAsFormat(data[1:], format, t)
}

// LoadAsFormat loads a data blob into the interface using the specified format.
func LoadAsFormat(data []byte, format SerializationFormat, t interface{}) (err error) {
	switch format {
	case CBOR:
		err = cbor.Unmarshal(data, t)
	case JSON:
		err = json.Unmarshal(data, t)
	case MsgPack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		err = dec.Decode(t)
	case YAML:
		err = yaml.Unmarshal(data, t)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}

	if err != nil {
		return fmt.Errorf("dsd: failed to load %s: %w", format, err)
	}
	return nil
}

// Dump stores the interface as a dsd formatted data structure.
func Dump(t interface{}, format SerializationFormat) ([]byte, error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrIncompatibleFormat
	}

	data, err := DumpWithoutIdentifier(t, format)
	if err != nil {
		return nil, err
	}

	return append([]byte{byte(format)}, data...), nil
}

// DumpWithoutIdentifier serializes the interface without the leading format identifier.
func DumpWithoutIdentifier(t interface{}, format SerializationFormat) (data []byte, err error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrIncompatibleFormat
	}

	switch format {
	case CBOR:
		data, err = cborEncMode.Marshal(t)
	case JSON:
		data, err = json.Marshal(t)
	case MsgPack:
		buf := &bytes.Buffer{}
		enc := msgpack.NewEncoder(buf)
		enc.SetCustomStructTag("json")
		err = enc.Encode(t)
		data = buf.Bytes()
	case YAML:
		data, err = yaml.Marshal(t)
	}

	if err != nil {
		return nil, fmt.Errorf("dsd: failed to dump %s: %w", format, err)
	}
	return data, nil
}
