// Package domainerrors defines the error taxonomy shared by the directory,
// wallet and contract layers. Errors carry a Code so callers can branch on
// the failure class without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	// Wallet
	CodeProviderMissing Code = "provider_missing"
	CodeUserRejected    Code = "user_rejected"
	CodeProviderError   Code = "provider_error"
	CodeNotConnected    Code = "not_connected"

	// Contract
	CodeNotInitialized    Code = "not_initialized"
	CodeContractCallError Code = "contract_call_error"

	// Directory
	CodeNetworkError Code = "network_error"
	CodeDecodeError  Code = "decode_error"
	CodeNotFound     Code = "not_found"

	// Normalization
	CodeMalformedRecord Code = "malformed_record"

	// HTTP surface
	CodeBadRequest Code = "bad_request"
	CodeInternal   Code = "internal_error"
)

// Error is a coded domain error. Err, when set, is the underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap supports errors.Is/As on the cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any error in err's chain is a domain error with code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of the outermost domain error in err's chain,
// or CodeInternal when there is none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	if err == nil {
		return ""
	}
	return CodeInternal
}
