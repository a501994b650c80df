package bfun

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when an allocation would exceed the arena's limit.
var ErrBufferFull = errors.New("arena limit reached")

// slabSize is the size of the pooled blocks small allocations are carved from. Requests larger than this are
// allocated on their own.
const slabSize = 32 * 1024

var slabs = sync.Pool{New: func() any {
	b := make([]byte, slabSize)
	return &b
}}

// Arena hands out memory that lives exactly as long as one request. There is no way to release a single
// allocation: everything goes at once with [Arena.Free].
type Arena struct {
	limit int
	used  int
	held  []*[]byte
	cur   []byte
}

// NewArena inits an arena that refuses to hand out more than limit bytes in total. A negative limit disables
// the check.
func NewArena(limit int) *Arena {
	return &Arena{limit: limit}
}

// Alloc returns an owned slice of n bytes. The contents are undefined, callers are expected to overwrite all of it.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Newf("negative allocation: %d", n)
	}

	if a.limit >= 0 && a.used+n > a.limit {
		return nil, errors.Wrapf(ErrBufferFull, "allocate %d bytes with %d of %d in use", n, a.used, a.limit)
	}

	a.used += n
	if n > slabSize {
		return make([]byte, n), nil
	}

	if len(a.cur) < n {
		slab, _ := slabs.Get().(*[]byte)
		a.held = append(a.held, slab)
		a.cur = *slab
	}

	b := a.cur[:n:n]
	a.cur = a.cur[n:]

	return b, nil
}

// Used returns the number of bytes allocated so far.
func (a *Arena) Used() int { return a.used }

// Free returns all pooled memory. Anything allocated from the arena must not be used afterwards.
func (a *Arena) Free() {
	for _, slab := range a.held {
		slabs.Put(slab)
	}

	a.held, a.cur, a.used = nil, nil, 0
}
