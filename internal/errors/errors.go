// Package errors defines the structured errors evmon shows to users.
package errors

import (
	"errors"
	"strings"
)

// Code categorizes an error by the subsystem that produced it.
type Code string

const (
	ErrConfig  Code = "CONFIG"
	ErrGateway Code = "GATEWAY"
	ErrRoute   Code = "ROUTE"
	ErrTable   Code = "TABLE"
)

// Error carries what failed, the underlying cause, and what to try next.
// Error() renders it as:
//
//	✗ <Message>
//
//	  <Cause>
//
//	  <Suggestion>
type Error struct {
	Code       Code
	Message    string
	Suggestion string
	Cause      error
}

// New creates an error with no underlying cause.
func New(code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion}
}

// Wrap attaches a message to err. The code is inherited from the first
// structured error in err's chain, or ErrGateway when there is none, since
// most bare errors come from the transport.
func Wrap(err error, message string) *Error {
	code := CodeOf(err)
	if code == "" {
		code = ErrGateway
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// WrapWithCode attaches a code, message and suggestion to err.
func WrapWithCode(err error, code Code, message, suggestion string) *Error {
	return &Error{Code: code, Message: message, Suggestion: suggestion, Cause: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("✗ ")
	b.WriteString(e.Message)
	b.WriteByte('\n')

	for _, section := range []string{causeText(e.Cause), e.Suggestion} {
		if section == "" {
			continue
		}
		b.WriteString("\n  ")
		b.WriteString(section)
		b.WriteByte('\n')
	}
	return b.String()
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsCode reports whether the first structured error in err's chain has code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns the code of the first structured error in err's chain, or
// "" when there is none.
func CodeOf(err error) Code {
	var evErr *Error
	if errors.As(err, &evErr) {
		return evErr.Code
	}
	return ""
}

// SuggestionOf returns the first non-empty suggestion in err's chain.
func SuggestionOf(err error) string {
	for err != nil {
		var evErr *Error
		if !errors.As(err, &evErr) {
			return ""
		}
		if evErr.Suggestion != "" {
			return evErr.Suggestion
		}
		err = evErr.Cause
	}
	return ""
}
