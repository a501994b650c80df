// Package arcpng draws a three-quarter arc with construction lines and encodes it as PNG.
package arcpng

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/advdv/bfun"
	"github.com/cockroachdb/errors"
	"golang.org/x/image/vector"
)

const (
	arcWidth    = 10.0
	helperWidth = 6.0
	dotRadius   = 10.0

	// the arc runs clockwise on screen from the top round to the left.
	arcStart = 270.0 * math.Pi / 180.0
	arcEnd   = 180.0*math.Pi/180.0 + 2*math.Pi
)

var (
	arcColor    = image.NewUniform(color.NRGBA{A: 0xff})
	helperColor = image.NewUniform(color.NRGBA{R: 0xff, G: 0x33, B: 0x33, A: 0x99})
)

// Render draws the arc for the geometry onto a transparent surface.
func Render(g bfun.Geometry) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	z := vector.NewRasterizer(g.Width, g.Height)

	strokeArc(z, g.CenterX, g.CenterY, g.Radius, arcWidth, arcStart, arcEnd)
	z.Draw(dst, dst.Bounds(), arcColor, image.Point{})

	z.Reset(g.Width, g.Height)
	fillCircle(z, g.CenterX, g.CenterY, dotRadius)
	z.Draw(dst, dst.Bounds(), helperColor, image.Point{})

	sx, sy := polar(g.CenterX, g.CenterY, g.Radius, arcStart)
	ex, ey := polar(g.CenterX, g.CenterY, g.Radius, arcEnd)

	z.Reset(g.Width, g.Height)
	strokeSegment(z, sx, sy, g.CenterX, g.CenterY, helperWidth)
	strokeSegment(z, g.CenterX, g.CenterY, ex, ey, helperWidth)
	z.Draw(dst, dst.Bounds(), helperColor, image.Point{})

	return dst
}

// Encoder renders the geometry and streams it as PNG.
type Encoder struct {
	CompressionLevel png.CompressionLevel
}

// Encode implements bfun.Encoder. The writer sees the PNG in pieces as the encoder produces them.
func (e Encoder) Encode(ctx context.Context, g bfun.Geometry, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "before render")
	}

	if g.Width <= 0 || g.Height <= 0 {
		return errors.Newf("invalid surface %dx%d", g.Width, g.Height)
	}

	enc := png.Encoder{CompressionLevel: e.CompressionLevel, BufferPool: buffers}

	return errors.Wrap(enc.Encode(w, Render(g)), "encode png")
}

var _ bfun.Encoder = Encoder{}

// bufferPool shares png encoder buffers between requests.
type bufferPool struct{ sync.Pool }

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.Pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) { p.Pool.Put(b) }

var buffers = &bufferPool{}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}

// segments returns how many straight pieces approximate an arc of radius r spanning the angle.
func segments(r, span float64) int {
	return max(16, int(math.Ceil(r*span/2)))
}

func strokeArc(z *vector.Rasterizer, cx, cy, r, width, from, to float64) {
	outer, inner := r+width/2, max(0, r-width/2)
	n := segments(outer, to-from)

	x, y := polar(cx, cy, outer, from)
	z.MoveTo(float32(x), float32(y))
	for i := 1; i <= n; i++ {
		x, y = polar(cx, cy, outer, from+(to-from)*float64(i)/float64(n))
		z.LineTo(float32(x), float32(y))
	}

	for i := n; i >= 0; i-- {
		x, y = polar(cx, cy, inner, from+(to-from)*float64(i)/float64(n))
		z.LineTo(float32(x), float32(y))
	}

	z.ClosePath()
}

func fillCircle(z *vector.Rasterizer, cx, cy, r float64) {
	n := segments(r, 2*math.Pi)

	x, y := polar(cx, cy, r, 0)
	z.MoveTo(float32(x), float32(y))
	for i := 1; i < n; i++ {
		x, y = polar(cx, cy, r, 2*math.Pi*float64(i)/float64(n))
		z.LineTo(float32(x), float32(y))
	}

	z.ClosePath()
}

func strokeSegment(z *vector.Rasterizer, x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}

	// half-width normal
	nx, ny := -dy/l*width/2, dx/l*width/2

	z.MoveTo(float32(x0+nx), float32(y0+ny))
	z.LineTo(float32(x1+nx), float32(y1+ny))
	z.LineTo(float32(x1-nx), float32(y1-ny))
	z.LineTo(float32(x0-nx), float32(y0-ny))
	z.ClosePath()
}
