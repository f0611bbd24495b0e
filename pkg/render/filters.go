// filters.go — The subject filter chain, with CSS filter-function semantics.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/xob0t/SnapPolish/pkg/layout"
)

// applyFilters runs chain over img in order. Blur radii are CSS pixels and
// are scaled by k. Identity steps are skipped.
func applyFilters(img image.Image, chain layout.FilterChain, k float64) *image.NRGBA {
	out := imaging.Clone(img)
	for _, f := range chain {
		if f.Identity() {
			continue
		}
		switch f.Kind {
		case layout.FilterBrightness:
			out = brightness(out, f.Amount/100)
		case layout.FilterContrast:
			out = contrast(out, f.Amount/100)
		case layout.FilterBlur:
			out = imaging.Blur(out, f.Amount*k)
		case layout.FilterGrayscale:
			out = grayscale(out, f.Amount/100)
		}
	}
	return out
}

// brightness multiplies each channel by v.
func brightness(img *image.NRGBA, v float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: channel(float64(c.R) * v), G: channel(float64(c.G) * v), B: channel(float64(c.B) * v), A: c.A}
	})
}

// contrast scales each channel's distance from mid-gray by v.
func contrast(img *image.NRGBA, v float64) *image.NRGBA {
	f := func(x uint8) uint8 { return channel((float64(x)-127.5)*v + 127.5) }
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
	})
}

// grayscale mixes each pixel toward its BT.709 luminance by amount 0..1.
func grayscale(img *image.NRGBA, amount float64) *image.NRGBA {
	amount = clamp01(amount)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		l := 0.2126*r + 0.7152*g + 0.0722*b
		return color.NRGBA{
			R: channel(r + (l-r)*amount),
			G: channel(g + (l-g)*amount),
			B: channel(b + (l-b)*amount),
			A: c.A,
		}
	})
}

func channel(v float64) uint8 {
	return uint8(min(max(v, 0), 255) + 0.5)
}
