package bfun

import (
	"github.com/cockroachdb/errors"
)

// ErrSinkClosed is returned when writing to a sink after it was closed.
var ErrSinkClosed = errors.New("sink is closed")

// Sink collects the output of an encoder into a chain. Encoders see it as a plain io.Writer and may call Write
// any number of times with chunks of any size.
type Sink struct {
	chain  *Chain
	arena  *Arena
	n      int64
	closed bool
}

// NewSink inits a sink that appends to c, copying every chunk into memory from a.
func NewSink(c *Chain, a *Arena) *Sink {
	return &Sink{chain: c, arena: a}
}

// Write copies p into the chain. The caller may reuse p as soon as Write returns.
func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrSinkClosed
	}

	if len(p) == 0 {
		return 0, nil
	}

	buf, err := s.arena.Alloc(len(p))
	if err != nil {
		return 0, errors.Wrap(err, "copy chunk")
	}

	copy(buf, p)
	s.chain.MarkLast(s.chain.Append(buf, true))
	s.n += int64(len(p))

	return len(p), nil
}

// Len returns the number of bytes accepted so far.
func (s *Sink) Len() int64 { return s.n }

// Close ends the stream and seals the chain. It is called once the encoder reported completion.
func (s *Sink) Close() (Body, error) {
	if s.closed {
		return Body{}, ErrSinkClosed
	}

	s.closed = true

	return s.chain.Seal()
}
