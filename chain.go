package bfun

import (
	"io"
	"iter"

	"github.com/cockroachdb/errors"
)

var (
	// ErrChainSealed is returned when sealing a chain for the second time.
	ErrChainSealed = errors.New("chain already sealed")
	// ErrUnterminated is returned when sealing a chain whose tail is not marked as the last node.
	ErrUnterminated = errors.New("chain tail is not marked last")
)

// Node is one byte range of a response body.
type Node struct {
	data     []byte
	readOnly bool
	last     bool
}

// Bytes returns the node's byte range.
func (n *Node) Bytes() []byte { return n.data }

// ReadOnly reports whether the bytes must be copied before being modified.
func (n *Node) ReadOnly() bool { return n.readOnly }

// Last reports whether the node terminates the chain.
func (n *Node) Last() bool { return n.last }

// NodeHandle identifies a node within the chain it was appended to.
type NodeHandle int

// Chain is an append-only sequence of byte ranges that together form one response body. The zero value is an
// empty chain ready for use.
type Chain struct {
	nodes  []Node
	size   int64
	marked NodeHandle
	sealed bool
}

// Append adds a node at the tail of the chain.
func (c *Chain) Append(data []byte, readOnly bool) NodeHandle {
	c.ensureNotSealed()
	if len(c.nodes) == 0 {
		c.marked = -1
	}

	c.nodes = append(c.nodes, Node{data: data, readOnly: readOnly})
	c.size += int64(len(data))

	return NodeHandle(len(c.nodes) - 1)
}

// MarkLast flags the node as terminating the chain. Any node marked before loses the flag, so at most one node
// is ever terminal.
func (c *Chain) MarkLast(h NodeHandle) {
	c.ensureNotSealed()
	if h < 0 || int(h) >= len(c.nodes) {
		panic("bfun: node handle out of range")
	}

	if c.marked >= 0 && c.marked != h {
		c.nodes[c.marked].last = false
	}

	c.nodes[h].last = true
	c.marked = h
}

// Len returns the number of nodes.
func (c *Chain) Len() int { return len(c.nodes) }

// Size returns the total number of bytes over all nodes.
func (c *Chain) Size() int64 { return c.size }

// Seal finalizes the chain into a body. The chain can no longer be changed afterwards.
func (c *Chain) Seal() (Body, error) {
	if c.sealed {
		return Body{}, ErrChainSealed
	}

	if n := len(c.nodes); n > 0 && int(c.marked) != n-1 {
		return Body{}, errors.Wrapf(ErrUnterminated, "tail is node %d of %d", n-1, n)
	}

	c.sealed = true

	return Body{chain: c, length: ContentLength{n: c.size}}, nil
}

func (c *Chain) ensureNotSealed() {
	if c.sealed {
		panic("bfun: chain is sealed")
	}
}

// ContentLength is the total length of a sealed body. A non-zero length can only be obtained from [Body.Length],
// so headers announcing content cannot be formed before the body is complete. The zero value announces an empty
// body.
type ContentLength struct{ n int64 }

// Int64 returns the length in bytes.
func (l ContentLength) Int64() int64 { return l.n }

// Body is the read-only view of a sealed chain.
type Body struct {
	chain  *Chain
	length ContentLength
}

// Length returns the final length of the body.
func (b Body) Length() ContentLength { return b.length }

// Empty reports whether the body has no bytes at all.
func (b Body) Empty() bool { return b.length.n == 0 }

// Nodes iterates the nodes from head to tail.
func (b Body) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if b.chain == nil {
			return
		}

		for i := range b.chain.nodes {
			if !yield(&b.chain.nodes[i]) {
				return
			}
		}
	}
}

// WriteTo writes every node to w in order.
func (b Body) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for node := range b.Nodes() {
		n, err := w.Write(node.data)
		total += int64(n)
		if err != nil {
			return total, errors.Wrapf(err, "write node of %d bytes", len(node.data))
		}
	}

	return total, nil
}
