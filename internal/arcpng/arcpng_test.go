package arcpng_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/advdv/bfun"
	"github.com/advdv/bfun/internal/arcpng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	c, _ := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c
}

func TestEncode(t *testing.T) {
	g := bfun.NewGeometry(100)

	var w countingWriter
	require.NoError(t, arcpng.Encoder{}.Encode(context.Background(), g, &w))
	require.True(t, bytes.HasPrefix(w.Bytes(), pngSignature))
	require.Greater(t, w.calls, 1, "png is streamed in several writes")

	img, err := png.Decode(bytes.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 264, 264), img.Bounds())

	cx, cy := int(g.CenterX), int(g.CenterY)

	t.Run("transparent background", func(t *testing.T) {
		assert.Zero(t, nrgbaAt(img, 0, 0).A)
		assert.Zero(t, nrgbaAt(img, 263, 263).A)
	})

	t.Run("arc is drawn on the right", func(t *testing.T) {
		c := nrgbaAt(img, cx+100, cy)
		assert.Greater(t, c.A, uint8(0xf0))
		assert.Less(t, c.R, uint8(0x10))
	})

	t.Run("top left quarter is open", func(t *testing.T) {
		r := g.Radius
		d := int(r * math.Sqrt2 / 2)
		assert.Zero(t, nrgbaAt(img, cx-d, cy-d).A)
	})

	t.Run("helper dot at the center", func(t *testing.T) {
		c := nrgbaAt(img, cx+2, cy+2)
		assert.InDelta(t, 0x99, int(c.A), 4)
		assert.InDelta(t, 0xff, int(c.R), 4)
		assert.InDelta(t, 0x33, int(c.G), 6)
	})
}

func TestEncodeDeterministic(t *testing.T) {
	for _, radius := range []int{1, 100, 1000} {
		t.Run(strconv.Itoa(radius), func(t *testing.T) {
			var b1, b2 bytes.Buffer
			g := bfun.NewGeometry(radius)
			require.NoError(t, arcpng.Encoder{}.Encode(context.Background(), g, &b1))
			require.NoError(t, arcpng.Encoder{}.Encode(context.Background(), g, &b2))
			require.Equal(t, b1.Bytes(), b2.Bytes())
		})
	}
}

func TestEncodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := arcpng.Encoder{}.Encode(ctx, bfun.NewGeometry(10), &buf)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, buf.Len())
}

func TestEncodeInvalidSurface(t *testing.T) {
	var buf bytes.Buffer
	err := arcpng.Encoder{}.Encode(context.Background(), bfun.Geometry{}, &buf)
	require.Error(t, err)
}

func TestServeGenerated(t *testing.T) {
	logs := bfun.NewTestLogger(t)
	hdlr := bfun.ToStd(bfun.NewHandler(bfun.Generated{Radius: 100, Encoder: arcpng.Encoder{}}), -1, logs)

	rec, req := httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fun.png", nil)
	hdlr.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngSignature))
	require.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))

	head := httptest.NewRecorder()
	hdlr.ServeHTTP(head, httptest.NewRequest(http.MethodHead, "/fun.png", nil))
	require.Equal(t, http.StatusOK, head.Code)
	require.Equal(t, rec.Header().Get("Content-Length"), head.Header().Get("Content-Length"))
	require.Zero(t, head.Body.Len())
}

func TestServeGeneratedOverLimit(t *testing.T) {
	logs := bfun.NewTestLogger(t)
	hdlr := bfun.ToStd(bfun.NewHandler(bfun.Generated{Radius: 100, Encoder: arcpng.Encoder{}}), 64, logs)

	rec := httptest.NewRecorder()
	hdlr.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fun.png", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Zero(t, rec.Body.Len())
	require.Equal(t, int64(1), logs.NumLogUnhandledServeError)
}
