// Package apperr defines the error taxonomy shared by all services:
// validation, not-found, authorization, business-rule, and unexpected
// failures. Handlers map kinds to HTTP status codes.
package apperr

import "fmt"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindBusinessRule
	KindInternal
)

// Business-rule codes used by services and asserted in tests.
const (
	CodeEmptyCart         = "EMPTY_CART"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUnavailable       = "PRODUCT_UNAVAILABLE"
	CodeInvalidTransition = "INVALID_STATUS_TRANSITION"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// BusinessRule builds a business-rule error carrying a stable code.
func BusinessRule(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Internal wraps an unexpected storage or infrastructure failure. The
// wrapped cause is logged but never leaked to the client.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	if ae, ok := err.(*Error); ok {
		return ae.Kind
	}
	return KindInternal
}

// CodeOf reports the business-rule code of err, if any.
func CodeOf(err error) string {
	if ae, ok := err.(*Error); ok {
		return ae.Code
	}
	return ""
}
