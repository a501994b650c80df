package bfun

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
)

// FunString is the payload of the static variant.
const FunString = "This is fun!"

// Content produces a complete response body.
type Content interface {
	ContentType() string
	Produce(ctx context.Context, a *Arena) (Body, error)
}

// Encoder generates output incrementally into w. It may write any number of times and must stop at the first
// write error.
type Encoder interface {
	Encode(ctx context.Context, g Geometry, w io.Writer) error
}

// EncoderFunc allows casting a function to an [Encoder].
type EncoderFunc func(ctx context.Context, g Geometry, w io.Writer) error

// Encode implements the [Encoder] interface.
func (f EncoderFunc) Encode(ctx context.Context, g Geometry, w io.Writer) error {
	return f(ctx, g, w)
}

// Static serves fixed bytes. The bytes are referenced, not copied, and must not change while being served.
type Static struct {
	Type string
	Data []byte
}

// NewStatic serves the fun string as html.
func NewStatic() Static {
	return Static{Type: "text/html", Data: []byte(FunString)}
}

func (s Static) ContentType() string { return s.Type }

func (s Static) Produce(_ context.Context, _ *Arena) (Body, error) {
	var chain Chain
	if len(s.Data) > 0 {
		chain.MarkLast(chain.Append(s.Data, true))
	}

	return chain.Seal()
}

// Generated serves a PNG image produced by its encoder for every request.
type Generated struct {
	Radius  int
	Encoder Encoder
}

func (g Generated) ContentType() string { return "image/png" }

func (g Generated) Produce(ctx context.Context, a *Arena) (Body, error) {
	var chain Chain
	sink := NewSink(&chain, a)

	if err := g.Encoder.Encode(ctx, NewGeometry(g.Radius), sink); err != nil {
		return Body{}, errors.Wrapf(err, "encode after %d bytes", sink.Len())
	}

	return sink.Close()
}
