package bfun_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/advdv/bfun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSink(t *testing.T) {
	t.Run("length equals the sum of chunks", func(t *testing.T) {
		arena := bfun.NewArena(-1)
		defer arena.Free()

		var chain bfun.Chain
		sink := bfun.NewSink(&chain, arena)

		var want bytes.Buffer
		for _, size := range []int{1, 7, 8192, 0, 40000, 3} {
			chunk := make([]byte, size)
			_, _ = rand.Read(chunk)
			want.Write(chunk)

			n, err := sink.Write(chunk)
			require.NoError(t, err)
			require.Equal(t, size, n)
		}

		require.Equal(t, int64(want.Len()), sink.Len())
		require.Equal(t, 5, chain.Len(), "empty writes must not append")

		body, err := sink.Close()
		require.NoError(t, err)
		require.Equal(t, int64(want.Len()), body.Length().Int64())

		var got bytes.Buffer
		_, err = body.WriteTo(&got)
		require.NoError(t, err)
		assert.Equal(t, want.Bytes(), got.Bytes())
	})

	t.Run("copies the chunk", func(t *testing.T) {
		arena := bfun.NewArena(-1)
		defer arena.Free()

		var chain bfun.Chain
		sink := bfun.NewSink(&chain, arena)

		chunk := []byte("abc")
		_, err := sink.Write(chunk)
		require.NoError(t, err)
		copy(chunk, "xyz")

		body, err := sink.Close()
		require.NoError(t, err)

		var got bytes.Buffer
		_, err = body.WriteTo(&got)
		require.NoError(t, err)
		assert.Equal(t, "abc", got.String())
	})

	t.Run("zero writes give an empty body", func(t *testing.T) {
		var chain bfun.Chain
		sink := bfun.NewSink(&chain, bfun.NewArena(-1))

		body, err := sink.Close()
		require.NoError(t, err)
		assert.True(t, body.Empty())
	})

	t.Run("fails when the arena is full", func(t *testing.T) {
		var chain bfun.Chain
		sink := bfun.NewSink(&chain, bfun.NewArena(4))

		_, err := sink.Write([]byte("abc"))
		require.NoError(t, err)

		n, err := sink.Write([]byte("de"))
		require.ErrorIs(t, err, bfun.ErrBufferFull)
		assert.Zero(t, n)
		assert.Equal(t, int64(3), sink.Len(), "failed chunk must not count")
		assert.Equal(t, 1, chain.Len(), "failed chunk must not append")
	})

	t.Run("refuses writes after close", func(t *testing.T) {
		var chain bfun.Chain
		sink := bfun.NewSink(&chain, bfun.NewArena(-1))
		_, err := sink.Close()
		require.NoError(t, err)

		_, err = sink.Write([]byte("a"))
		require.ErrorIs(t, err, bfun.ErrSinkClosed)

		_, err = sink.Close()
		require.ErrorIs(t, err, bfun.ErrSinkClosed)
	})
}
