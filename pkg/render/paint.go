// paint.go — Canvas backgrounds: solid, linear gradient, pattern tiles and
// cover-filled images.
package render

import (
	"context"
	"image"
	"image/draw"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/layout"
)

// paintCanvas fills dst with the canvas paint at scale k.
func (r *Rasterizer) paintCanvas(ctx context.Context, dst *image.RGBA, p *layout.CanvasPaint, k float64, allowRemote bool) error {
	base := colorOr(p.Fill, colorOr(layout.PatternBase, white))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(base), image.Point{}, draw.Src)

	switch p.Type {
	case composition.BackgroundGradient:
		if p.Gradient != nil {
			paintGradient(dst, *p.Gradient)
		}
	case composition.BackgroundPattern:
		if p.Tile != nil {
			paintTiles(dst, *p.Tile, k)
		}
	case composition.BackgroundImage:
		px, err := r.pixels(ctx, p.Image, allowRemote)
		if err != nil {
			return err
		}
		b := dst.Bounds()
		cover := imaging.Fill(px, b.Dx(), b.Dy(), imaging.Center, imaging.Lanczos)
		draw.Draw(dst, b, cover, image.Point{}, draw.Over)
	}
	return nil
}

// paintGradient draws a CSS linear-gradient: the angle is measured clockwise
// from "to top", and the gradient line is long enough that the corners get
// the end colors.
func paintGradient(dst *image.RGBA, g composition.Gradient) {
	if len(g.Stops) == 0 {
		return
	}
	stops := make([]composition.GradientStop, len(g.Stops))
	copy(stops, g.Stops)
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Offset < stops[j].Offset })

	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	sin, cos := math.Sincos(g.Angle * math.Pi / 180)
	// Snap near-zero components so axis-aligned angles stay axis-aligned.
	sin, cos = math.Round(sin*1e9)/1e9, math.Round(cos*1e9)/1e9
	half := (math.Abs(w*sin) + math.Abs(h*cos)) / 2
	if half == 0 {
		half = 0.5
	}
	cx, cy := w/2, h/2
	dx, dy := sin*half, -cos*half

	grad := gg.NewLinearGradient(cx-dx, cy-dy, cx+dx, cy+dy)
	first, last := stops[0], stops[len(stops)-1]
	if clamp01(first.Offset) > 0 {
		grad.AddColorStop(0, colorOr(first.Color, black))
	}
	for _, s := range stops {
		grad.AddColorStop(clamp01(s.Offset), colorOr(s.Color, black))
	}
	if clamp01(last.Offset) < 1 {
		grad.AddColorStop(1, colorOr(last.Color, black))
	}

	dc := gg.NewContextForRGBA(dst)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

// paintTiles repeats the pattern cell from the top-left corner. Dots put one
// dot at each cell center; grid draws the cell's top and left hairlines.
func paintTiles(dst *image.RGBA, tile layout.Tile, k float64) {
	size := tile.Size * k
	if size <= 0 {
		return
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	dc := gg.NewContextForRGBA(dst)
	switch tile.Pattern {
	case composition.PatternDots:
		radius := math.Max(tile.DotRadius*k, 0.5)
		for y := size / 2; y < h+size; y += size {
			for x := size / 2; x < w+size; x += size {
				dc.DrawCircle(x, y, radius)
			}
		}
	case composition.PatternGrid:
		lw := math.Max(tile.LineWidth*k, 1)
		for x := 0.0; x < w; x += size {
			dc.DrawRectangle(x, 0, lw, h)
		}
		for y := 0.0; y < h; y += size {
			dc.DrawRectangle(0, y, w, lw)
		}
	default:
		return
	}
	dc.SetColor(colorOr(tile.Ink, colorOr(layout.PatternInk, black)))
	dc.Fill()
}
