package bfun

import (
	"io"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
)

// HeadersOut holds the response headers a handler controls.
type HeadersOut struct {
	Status        int
	ContentType   string
	ContentLength ContentLength
}

// Host is the server side of a single request/response exchange.
type Host interface {
	DiscardBody() error
	SendHeaders(out HeadersOut) error
	SendBody(body Body) error
}

// stdHost implements Host on top of the standard library.
type stdHost struct {
	w http.ResponseWriter
	r *http.Request
}

// NewStdHost returns a host that drives the standard library response writer.
func NewStdHost(w http.ResponseWriter, r *http.Request) Host {
	return stdHost{w: w, r: r}
}

func (h stdHost) DiscardBody() error {
	if h.r.Body == nil || h.r.Body == http.NoBody {
		return nil
	}

	if _, err := io.Copy(io.Discard, h.r.Body); err != nil {
		return errors.Wrap(err, "drain")
	}

	return errors.Wrap(h.r.Body.Close(), "close")
}

func (h stdHost) SendHeaders(out HeadersOut) error {
	hdr := h.w.Header()
	if out.ContentType != "" {
		hdr.Set("Content-Type", out.ContentType)
	}

	hdr.Set("Content-Length", strconv.FormatInt(out.ContentLength.Int64(), 10))
	h.w.WriteHeader(out.Status)

	return nil
}

func (h stdHost) SendBody(body Body) error {
	_, err := body.WriteTo(h.w)
	return err
}
