package bfun

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. Handlers return errors carrying a code so the std
// adapter can turn them into a response status structurally.
type Code int

const (
	CodeUnknown             Code = 0
	CodeBadRequest          Code = http.StatusBadRequest          // RFC 9110, 15.5.1
	CodeNotFound            Code = http.StatusNotFound            // RFC 9110, 15.5.5
	CodeMethodNotAllowed    Code = http.StatusMethodNotAllowed    // RFC 9110, 15.5.6
	CodeInternalServerError Code = http.StatusInternalServerError // RFC 9110, 15.6.1
	CodeServiceUnavailable  Code = http.StatusServiceUnavailable  // RFC 9110, 15.6.4
)

var (
	// ErrMethodNotAllowed is returned for any method other than GET and HEAD.
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrBodyDiscardFailed is returned when the request body could not be drained.
	ErrBodyDiscardFailed = errors.New("discard request body")
	// ErrGenerationFailed is returned when the content could not be produced.
	ErrGenerationFailed = errors.New("generate content")
	// ErrHeaderSendFailed is returned when the host failed to emit the response headers.
	ErrHeaderSendFailed = errors.New("send headers")
	// ErrBodySendFailed is returned when the host failed to emit the response body.
	ErrBodySendFailed = errors.New("send body")
)

// Error describes an http error.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

func (e *Error) Code() Code    { return e.code }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	var herr *Error
	if errors.As(err, &herr) {
		return herr.Code()
	}
	return CodeUnknown
}
