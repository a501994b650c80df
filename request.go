package bfun

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	// ErrHeadersSent is returned when headers are sent twice for one request.
	ErrHeadersSent = errors.New("headers already sent")
	// ErrHeadersNotSent is returned when sending a body before the headers.
	ErrHeadersNotSent = errors.New("headers not sent yet")
)

// Request is the per-request state a [Handler] works on. It lives as long as the exchange with the client.
type Request struct {
	// Method is the request method.
	Method string
	// HeaderOnly is set when the client only wants the response headers.
	HeaderOnly bool
	// Out holds the response headers. The status and length are recorded by [Request.SendHeaders].
	Out HeadersOut

	std   *http.Request
	host  Host
	arena *Arena
	sent  bool
}

// NewRequest inits the request state for one exchange with the host.
func NewRequest(method string, host Host, arena *Arena) *Request {
	return &Request{
		Method:     method,
		HeaderOnly: method == http.MethodHead,
		host:       host,
		arena:      arena,
	}
}

// Std returns the standard library request, if the request was created by [ToStd].
func (rq *Request) Std() *http.Request { return rq.std }

// Arena returns the memory scoped to this request.
func (rq *Request) Arena() *Arena { return rq.arena }

// HeadersSent reports whether the headers left the process.
func (rq *Request) HeadersSent() bool { return rq.sent }

// DiscardBody drains whatever the client sent along.
func (rq *Request) DiscardBody() error {
	return rq.host.DiscardBody()
}

// SendHeaders records the status and final length and emits the headers. It can be called once.
func (rq *Request) SendHeaders(status int, length ContentLength) error {
	if rq.sent {
		return ErrHeadersSent
	}

	rq.Out.Status = status
	rq.Out.ContentLength = length
	rq.sent = true

	return rq.host.SendHeaders(rq.Out)
}

// SendBody emits the body. Headers must have been sent before.
func (rq *Request) SendBody(body Body) error {
	if !rq.sent {
		return ErrHeadersNotSent
	}

	return rq.host.SendBody(body)
}
