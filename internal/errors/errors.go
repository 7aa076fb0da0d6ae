package errors

import (
	stderrors "errors"
	"fmt"
)

// Code classifies a trapmail failure.
type Code string

const (
	ErrStore           Code = "STORE"           // underlying write failed
	ErrSerialization   Code = "SERIALIZATION"   // mail could not be encoded
	ErrDirEnumeration  Code = "DIR_ENUMERATION" // store directory could not be read
	ErrLoad            Code = "LOAD"            // mail file could not be opened
	ErrDeserialization Code = "DESERIALIZATION" // mail file could not be decoded
	ErrInvalidRequest  Code = "INVALID_REQUEST" // bad input on the CLI/MCP surface
	ErrConfig          Code = "CONFIG"          // configuration could not be loaded
)

// TrapError is a structured error carrying a code, a fixed operation
// message, and the underlying cause. Every failure is surfaced to the
// caller in this shape; nothing is retried internally.
type TrapError struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TrapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause.
func (e *TrapError) Unwrap() error {
	return e.Err
}

// NewStore wraps a failed mail write.
func NewStore(err error) *TrapError {
	return &TrapError{Code: ErrStore, Message: "could not store mail", Err: err}
}

// NewSerialization wraps a failed mail encode.
func NewSerialization(err error) *TrapError {
	return &TrapError{Code: ErrSerialization, Message: "could not serialize mail", Err: err}
}

// NewDirEnumeration wraps a failure to read the store directory.
func NewDirEnumeration(err error) *TrapError {
	return &TrapError{Code: ErrDirEnumeration, Message: "could not open storage directory for reading", Err: err}
}

// NewLoad wraps a failure to open a stored mail file.
func NewLoad(err error) *TrapError {
	return &TrapError{Code: ErrLoad, Message: "could not load mail", Err: err}
}

// NewDeserialization wraps a failed mail decode.
func NewDeserialization(err error) *TrapError {
	return &TrapError{Code: ErrDeserialization, Message: "could not deserialize mail", Err: err}
}

// NewInvalidRequest creates an error for invalid request parameters.
func NewInvalidRequest(msg string) *TrapError {
	return &TrapError{Code: ErrInvalidRequest, Message: msg}
}

// NewConfig wraps a configuration loading failure.
func NewConfig(err error) *TrapError {
	return &TrapError{Code: ErrConfig, Message: "could not load configuration", Err: err}
}

// Is reports whether err is (or wraps) a TrapError with the given code.
func Is(err error, code Code) bool {
	var te *TrapError
	if stderrors.As(err, &te) {
		return te.Code == code
	}
	return false
}
