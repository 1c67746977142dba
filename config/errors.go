package config

import (
	"errors"
	"fmt"
)

// Errors.
var (
	ErrInvalidData     = errors.New("invalid data")
	ErrUnknownOption   = errors.New("unknown option")
	ErrUnsupportedType = errors.New("type not supported")
	ErrInvalidJSON     = errors.New("json string invalid")
)

// InvalidOptionError is returned by Register for incomplete or inconsistent options.
type InvalidOptionError struct {
	Key string
	Msg string
	Err error
}

func (e *InvalidOptionError) Error() string {
	msg := "config: cannot register option"
	if e.Key != "" {
		msg += " " + e.Key
	}
	msg += ": " + e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidOptionError) Unwrap() error {
	return e.Err
}

// InvalidValueError is returned when a value does not fit its option.
type InvalidValueError struct {
	Option string
	Value  interface{}
	Msg    string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("config: %s: rejected value %#v: %s", e.Option, e.Value, e.Msg)
}
