// transform.go — Places the frame sprite through the frame transform.
// In-plane transforms (scale, rotateZ) go through x/image/draw; a tilted
// frame is a planar homography sampled per destination pixel.
package render

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/xob0t/SnapPolish/pkg/layout"
)

// warp composites src over dst so that the point pivot of src lands on
// center, transformed by t. k is the device scale; the perspective distance
// scales with it.
func warp(dst *image.RGBA, src *image.RGBA, t layout.Transform, pivot, center layout.Point, k float64) {
	m := t.Matrix
	if t.Affine() {
		a, b, c, d := m[0], m[1], m[4], m[5]
		s2d := f64.Aff3{
			a, b, center.X - a*pivot.X - b*pivot.Y,
			c, d, center.Y - c*pivot.X - d*pivot.Y,
		}
		xdraw.BiLinear.Transform(dst, s2d, src, src.Bounds(), xdraw.Over, nil)
		return
	}

	p := t.Perspective * k
	if p <= 0 {
		p = math.Inf(1)
	}
	h := homography(m, p)
	inv, ok := h.inverse()
	if !ok {
		return
	}

	// Destination bounds from the projected source corners.
	sb := src.Bounds()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{
		{float64(sb.Min.X), float64(sb.Min.Y)}, {float64(sb.Max.X), float64(sb.Min.Y)},
		{float64(sb.Max.X), float64(sb.Max.Y)}, {float64(sb.Min.X), float64(sb.Max.Y)},
	} {
		x, y, ok := h.apply(c[0]-pivot.X, c[1]-pivot.Y)
		if !ok {
			return
		}
		minX, maxX = math.Min(minX, x+center.X), math.Max(maxX, x+center.X)
		minY, maxY = math.Min(minY, y+center.Y), math.Max(maxY, y+center.Y)
	}
	db := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY))).
		Intersect(dst.Bounds())

	for y := db.Min.Y; y < db.Max.Y; y++ {
		for x := db.Min.X; x < db.Max.X; x++ {
			sx, sy, ok := inv.apply(float64(x)+0.5-center.X, float64(y)+0.5-center.Y)
			if !ok {
				continue
			}
			r, g, b, a := bilinear(src, sx+pivot.X-0.5, sy+pivot.Y-0.5)
			if a == 0 {
				continue
			}
			over(dst, x, y, r, g, b, a)
		}
	}
}

// mat3 is a row-major 3×3 homography.
type mat3 [9]float64

// homography maps plane points (x, y, 0) through m and a pinhole at distance
// p: u = X·p/(p−Z), v = Y·p/(p−Z).
func homography(m layout.Mat4, p float64) mat3 {
	if math.IsInf(p, 1) {
		return mat3{m[0], m[1], 0, m[4], m[5], 0, 0, 0, 1}
	}
	return mat3{
		p * m[0], p * m[1], 0,
		p * m[4], p * m[5], 0,
		-m[8], -m[9], p,
	}
}

func (h mat3) apply(x, y float64) (float64, float64, bool) {
	w := h[6]*x + h[7]*y + h[8]
	if w <= 1e-9 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w, true
}

func (h mat3) inverse() (mat3, bool) {
	a, b, c := h[0], h[1], h[2]
	d, e, f := h[3], h[4], h[5]
	g, hh, i := h[6], h[7], h[8]
	A := e*i - f*hh
	B := -(d*i - f*g)
	C := d*hh - e*g
	det := a*A + b*B + c*C
	if math.Abs(det) < 1e-12 {
		return mat3{}, false
	}
	inv := mat3{
		A, -(b*i - c*hh), b*f - c*e,
		B, a*i - c*g, -(a*f - c*d),
		C, -(a*hh - b*g), a*e - b*d,
	}
	for j := range inv {
		inv[j] /= det
	}
	return inv, true
}

// bilinear samples premultiplied src at (x, y) in pixel-center coordinates.
// Outside pixels are transparent.
func bilinear(src *image.RGBA, x, y float64) (r, g, b, a float64) {
	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)
	for _, s := range [4]struct {
		dx, dy int
		w      float64
	}{
		{0, 0, (1 - fx) * (1 - fy)}, {1, 0, fx * (1 - fy)},
		{0, 1, (1 - fx) * fy}, {1, 1, fx * fy},
	} {
		if s.w == 0 {
			continue
		}
		px, py := ix+s.dx, iy+s.dy
		if !(image.Point{px, py}.In(src.Bounds())) {
			continue
		}
		o := src.PixOffset(px, py)
		r += float64(src.Pix[o]) * s.w
		g += float64(src.Pix[o+1]) * s.w
		b += float64(src.Pix[o+2]) * s.w
		a += float64(src.Pix[o+3]) * s.w
	}
	return r, g, b, a
}

// over composites a premultiplied sample onto dst at (x, y).
func over(dst *image.RGBA, x, y int, r, g, b, a float64) {
	o := dst.PixOffset(x, y)
	k := 1 - a/255
	dst.Pix[o] = channel(r + float64(dst.Pix[o])*k)
	dst.Pix[o+1] = channel(g + float64(dst.Pix[o+1])*k)
	dst.Pix[o+2] = channel(b + float64(dst.Pix[o+2])*k)
	dst.Pix[o+3] = channel(a + float64(dst.Pix[o+3])*k)
}

// drawAt composites src over dst with its top-left at (x, y), rounded to
// whole pixels.
func drawAt(dst draw.Image, src image.Image, x, y float64) {
	p := image.Pt(int(math.Round(x)), int(math.Round(y)))
	r := src.Bounds().Sub(src.Bounds().Min).Add(p)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}
