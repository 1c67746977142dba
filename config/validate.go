package config

import (
	"fmt"
	"math"
)

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v interface{}) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asStringArray(v interface{}) ([]string, bool) {
	switch v := v.(type) {
	case []string:
		return v, true
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, entry := range v {
			s, ok := entry.(string)
			if !ok {
				return nil, false
			}
			list = append(list, s)
		}
		return list, true
	}
	return nil, false
}

// asInt64 accepts all integer types that fit into an int64 and floats
// without a fractional part, as produced by JSON decoding.
func asInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case float32:
		if math.Trunc(float64(v)) == float64(v) {
			return int64(v), true
		}
	case float64:
		if math.Trunc(v) == v {
			return int64(v), true
		}
	}
	return 0, false
}

// normalize checks value against the option type and validation regex and
// returns it as string, []string, int64 or bool.
func normalize(option *Option, value interface{}) (interface{}, error) {
	invalid := func(msg string) error {
		return &InvalidValueError{Option: option.Key, Value: value, Msg: msg}
	}
	matches := func(s string) bool {
		return option.compiledRegex == nil || option.compiledRegex.MatchString(s)
	}

	switch option.OptType {
	case OptTypeString:
		s, ok := asString(value)
		if !ok {
			return nil, invalid("expected a string")
		}
		if !matches(s) {
			return nil, invalid("does not match " + option.ValidationRegex)
		}
		return s, nil

	case OptTypeStringArray:
		list, ok := asStringArray(value)
		if !ok {
			return nil, invalid("expected a list of strings")
		}
		for i, s := range list {
			if !matches(s) {
				return nil, invalid(fmt.Sprintf("entry %d does not match %s", i, option.ValidationRegex))
			}
		}
		return list, nil

	case OptTypeInt:
		n, ok := asInt64(value)
		if !ok {
			return nil, invalid("expected an integer")
		}
		if !matches(fmt.Sprintf("%d", n)) {
			return nil, invalid("does not match " + option.ValidationRegex)
		}
		return n, nil

	case OptTypeBool:
		b, ok := asBool(value)
		if !ok {
			return nil, invalid("expected a boolean")
		}
		return b, nil
	}

	return nil, ErrUnsupportedType
}
