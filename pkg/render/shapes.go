// shapes.go — Anti-aliased rounded rectangles, circles and the rounded clip,
// drawn with gg paths.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
)

// rectf is a box in device pixels.
type rectf struct {
	X, Y, W, H float64
}

// roundedPath adds r to dc's path. The radius is capped at half the short
// side.
func roundedPath(dc *gg.Context, r rectf, radius float64) {
	radius = math.Max(0, min(radius, r.W/2, r.H/2))
	if radius == 0 {
		dc.DrawRectangle(r.X, r.Y, r.W, r.H)
		return
	}
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
}

// fillRoundedRect paints r with corner radius onto dst.
func fillRoundedRect(dst *image.RGBA, r rectf, radius float64, c color.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	roundedPath(dc, r, radius)
	dc.SetColor(c)
	dc.Fill()
}

// fillCircle paints a disc.
func fillCircle(dst *image.RGBA, cx, cy, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	dc.DrawCircle(cx, cy, radius)
	dc.SetColor(c)
	dc.Fill()
}

// fillRect paints an axis-aligned box without rounding.
func fillRect(dst *image.RGBA, r rectf, c color.Color) {
	fillRoundedRect(dst, r, 0, c)
}

// clipRoundedRect returns img masked to a rounded box spanning its bounds.
// img must start at the origin.
func clipRoundedRect(img *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return img
	}
	b := img.Bounds()
	mc := gg.NewContext(b.Dx(), b.Dy())
	roundedPath(mc, rectf{0, 0, float64(b.Dx()), float64(b.Dy())}, radius)
	mc.SetColor(color.Black)
	mc.Fill()

	out := image.NewRGBA(b)
	draw.DrawMask(out, b, img, b.Min, mc.AsMask(), image.Point{}, draw.Src)
	return out
}
