// text.go — Single-line text measurement and drawing.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// textBox is the measured extent of one line.
type textBox struct {
	W       float64
	Ascent  float64
	Descent float64
}

func (t textBox) H() float64 { return t.Ascent + t.Descent }

func measure(face font.Face, s string) textBox {
	m := face.Metrics()
	return textBox{
		W:       fixedToFloat(font.MeasureString(face, s)),
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
	}
}

// drawString draws s with its top-left at (x, y).
func drawString(dst draw.Image, face font.Face, s string, x, y float64, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

// truncate shortens s with an ellipsis until it fits maxW. The cut point is
// found by bisection over the rune count.
func truncate(face font.Face, s string, maxW float64) string {
	if maxW <= 0 {
		return ""
	}
	width := func(s string) float64 { return fixedToFloat(font.MeasureString(face, s)) }
	if width(s) <= maxW {
		return s
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)-1 // lo fits or is empty; hi+1 does not fit
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if width(string(runes[:mid])+"…") <= maxW {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == 0 {
		return ""
	}
	return string(runes[:lo]) + "…"
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
