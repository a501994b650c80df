package bfun

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Handler serves one request against the host contract.
type Handler interface {
	ServeFun(ctx context.Context, rq *Request) error
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(context.Context, *Request) error

// ServeFun implements the [Handler] interface.
func (f HandlerFunc) ServeFun(ctx context.Context, rq *Request) error {
	return f(ctx, rq)
}

// contentHandler serves a [Content] with the length known before any header is sent.
type contentHandler struct {
	content Content
}

// NewHandler returns a handler serving c on GET and HEAD.
func NewHandler(c Content) Handler {
	return contentHandler{content: c}
}

func (h contentHandler) ServeFun(ctx context.Context, rq *Request) error {
	if rq.Method != http.MethodGet && rq.Method != http.MethodHead {
		return NewError(CodeMethodNotAllowed, errors.Wrapf(ErrMethodNotAllowed, "method %q", rq.Method))
	}

	if err := rq.DiscardBody(); err != nil {
		return NewError(CodeInternalServerError, fmt.Errorf("%w: %w", ErrBodyDiscardFailed, err))
	}

	rq.Out.ContentType = h.content.ContentType()

	body, err := h.content.Produce(ctx, rq.Arena())
	if err != nil {
		return NewError(CodeInternalServerError, fmt.Errorf("%w: %w", ErrGenerationFailed, err))
	}

	if err := rq.SendHeaders(http.StatusOK, body.Length()); err != nil {
		return fmt.Errorf("%w: %w", ErrHeaderSendFailed, err)
	}

	// the encoder already ran for HEAD requests, only to learn the length.
	if rq.HeaderOnly {
		return nil
	}

	if err := rq.SendBody(body); err != nil {
		return fmt.Errorf("%w: %w", ErrBodySendFailed, err)
	}

	return nil
}

// ToStd converts a handler into a standard library http.Handler. Each request gets its own arena of at most
// bufLimit bytes which is released when the request is served.
func ToStd(h Handler, bufLimit int, logs Logger) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		arena := NewArena(bufLimit)
		defer arena.Free()

		rq := NewRequest(req.Method, NewStdHost(resp, req), arena)
		rq.std = req

		err := h.ServeFun(req.Context(), rq)
		if err == nil {
			return
		}

		if rq.HeadersSent() {
			logs.LogSendError(err)
			return
		}

		code := CodeOf(err)
		if code == CodeUnknown || code >= CodeInternalServerError {
			logs.LogUnhandledServeError(err)
		}

		if code == CodeUnknown {
			code = CodeInternalServerError
		}

		writeStatus(resp, code)
	})
}

// writeStatus ends the response with the status code and an empty body.
func writeStatus(resp http.ResponseWriter, code Code) {
	hdr := resp.Header()
	if code == CodeMethodNotAllowed {
		hdr.Set("Allow", http.MethodGet+", "+http.MethodHead)
	}

	hdr.Set("Content-Length", strconv.Itoa(0))
	resp.WriteHeader(int(code))
}
