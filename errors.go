package newscrawl

import (
	"context"
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("newscrawl error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorKind classifies a crawl failure for logging and reporting.
type ErrorKind string

// Crawl failure kinds.
const (
	KindTransport  ErrorKind = "transport"
	KindHTTPStatus ErrorKind = "http_status"
	KindCanceled   ErrorKind = "canceled"
	KindExtraction ErrorKind = "extraction"
	KindInternal   ErrorKind = "internal"
)

// FetchError describes why a page could not be fetched.
type FetchError struct {
	Kind       ErrorKind
	URL        string
	StatusCode int   // set when Kind is KindHTTPStatus
	Err        error // underlying cause, may be nil for status failures
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	if e.Err == nil {
		return fmt.Sprintf("%s failure for %s", e.Kind, e.URL)
	}
	return fmt.Sprintf("%s failure for %s: %v", e.Kind, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError reports content that did not have the expected shape.
type ExtractError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExtractError) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	var ee *ExtractError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fe):
		return fe.Kind
	case errors.As(err, &ee):
		return KindExtraction
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}
