// overlay.go — Frame-local layers: mockup chrome, badge and watermark.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/skip2/go-qrcode"

	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/layout"
)

func scaled(r layout.Rect, k float64) rectf {
	return rectf{r.X * k, r.Y * k, r.W * k, r.H * k}
}

// ── Chrome ──

func (r *Rasterizer) drawChrome(dst *image.RGBA, ch *layout.Chrome, k float64) error {
	bar := scaled(ch.Bar, k)
	if ch.BarFill != "" {
		fillRect(dst, bar, colorOr(ch.BarFill, white))
	}

	switch ch.Mockup {
	case composition.MockupBrowser:
		if ch.BorderColor != "" {
			fillRect(dst, rectf{bar.X, bar.Y + bar.H - k, bar.W, k}, colorOr(ch.BorderColor, white))
		}
		for _, d := range ch.Dots {
			fillCircle(dst, d.Center.X*k, d.Center.Y*k, d.Radius*k, colorOr(d.Color, black))
		}
		if ch.Label != nil {
			return r.drawPill(dst, ch.Label, k)
		}

	case composition.MockupPhone:
		if ch.Notch != nil {
			fillRoundedRect(dst, scaled(*ch.Notch, k), ch.NotchRadius*k, colorOr(ch.NotchFill, black))
		}
	}
	return nil
}

// drawPill draws the browser address pill. Opacity applies to the whole pill.
func (r *Rasterizer) drawPill(dst *image.RGBA, p *layout.Pill, k float64) error {
	box := scaled(p.Box, k)
	if box.W < 1 || box.H < 1 {
		return nil
	}
	face, err := r.fonts.Face(p.FontSize*k, false)
	if err != nil {
		return err
	}

	layer := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(box.W)), int(math.Ceil(box.H))))
	fillRoundedRect(layer, rectf{0, 0, box.W, box.H}, p.Radius*k, colorOr(p.Fill, white))

	padX := 8 * k
	text := truncate(face, p.Text, box.W-2*padX)
	tb := measure(face, text)
	drawString(layer, face, text, padX, (box.H-tb.H())/2, colorOr(p.TextColor, black))

	drawFaded(dst, layer, box.X, box.Y, p.Opacity)
	return nil
}

// drawFaded composites src at (x, y) with a uniform opacity.
func drawFaded(dst draw.Image, src *image.RGBA, x, y, opacity float64) {
	at := image.Pt(int(math.Round(x)), int(math.Round(y)))
	rect := src.Bounds().Add(at)
	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(opacity)*255 + 0.5)})
	draw.DrawMask(dst, rect, src, image.Point{}, mask, image.Point{}, draw.Over)
}

// anchor returns the top-left of a w×h box placed in corner c of a frame of
// size fw×fh, inset from both edges.
func anchor(c composition.Corner, fw, fh, w, h, inset float64) (float64, float64) {
	x, y := inset, inset
	switch c {
	case composition.TopRight:
		x = fw - inset - w
	case composition.BottomLeft:
		y = fh - inset - h
	case composition.BottomRight:
		x, y = fw-inset-w, fh-inset-h
	}
	return x, y
}

// ── Badge ──

func (r *Rasterizer) drawBadge(dst *image.RGBA, frame layout.Rect, b *layout.BadgeOverlay, k float64) error {
	pill, err := r.badgeSprite(b, frame.W*k-2*b.Inset*k, k)
	if err != nil {
		return err
	}
	pb := pill.Bounds()
	w, h := float64(pb.Dx()), float64(pb.Dy())
	x, y := anchor(b.Corner, frame.W*k, frame.H*k, w, h, b.Inset*k)
	if b.RotationDeg == 0 {
		drawAt(dst, pill, x, y)
		return nil
	}

	// Rotate about the pill center; positive degrees turn clockwise.
	cx, cy := x+w/2, y+h/2
	dc := gg.NewContextForRGBA(dst)
	dc.RotateAbout(gg.Radians(b.RotationDeg), cx, cy)
	dc.DrawImageAnchored(pill, int(math.Round(cx)), int(math.Round(cy)), 0.5, 0.5)
	return nil
}

// badgeSprite draws the unrotated badge pill, at most maxW wide. Longer
// text is truncated with an ellipsis.
func (r *Rasterizer) badgeSprite(b *layout.BadgeOverlay, maxW, k float64) (*image.RGBA, error) {
	face, err := r.fonts.Face(b.FontSize*k, true)
	if err != nil {
		return nil, err
	}
	padX, padY := b.PadX*k, b.PadY*k
	text := truncate(face, b.Text, maxW-2*padX)
	tb := measure(face, text)
	w := math.Ceil(tb.W + 2*padX)
	h := math.Ceil(tb.H() + 2*padY)
	if err := r.fits(int(w), int(h)); err != nil {
		return nil, fmt.Errorf("badge: %w", err)
	}

	pill := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	fillRoundedRect(pill, rectf{0, 0, w, h}, b.Radius*k, colorOr(b.Fill, black))
	drawString(pill, face, text, padX, padY, colorOr(b.TextColor, white))
	return pill, nil
}

// ── Watermark ──

func (r *Rasterizer) drawWatermark(ctx context.Context, dst *image.RGBA, frame layout.Rect, wm *layout.WatermarkOverlay, k float64, allowRemote bool) error {
	pill, err := r.watermarkSprite(ctx, wm, frame.W*k-2*wm.Inset*k, k, allowRemote)
	if err != nil {
		return err
	}
	pb := pill.Bounds()
	x, y := anchor(wm.Corner, frame.W*k, frame.H*k, float64(pb.Dx()), float64(pb.Dy()), wm.Inset*k)
	drawFaded(dst, pill, x, y, wm.Opacity)
	return nil
}

// watermarkSprite draws the glyph and text pill, at most maxW wide.
func (r *Rasterizer) watermarkSprite(ctx context.Context, wm *layout.WatermarkOverlay, maxW, k float64, allowRemote bool) (*image.RGBA, error) {
	face, err := r.fonts.Face(wm.FontSize*k, true)
	if err != nil {
		return nil, err
	}
	glyph, err := r.watermarkGlyph(ctx, wm, k, allowRemote)
	if err != nil {
		return nil, err
	}

	g := wm.GlyphSize * k
	padX, padY, gap := wm.PadX*k, wm.PadY*k, wm.Gap*k
	text := truncate(face, wm.Text, maxW-2*padX-g-gap)
	tb := measure(face, text)
	contentW := g
	if text != "" {
		contentW += gap + tb.W
	}
	w := math.Ceil(contentW + 2*padX)
	h := math.Ceil(math.Max(g, tb.H()) + 2*padY)
	if err := r.fits(int(w), int(h)); err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	pill := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	fillRoundedRect(pill, rectf{0, 0, w, h}, wm.Radius*k, colorOr(wm.Fill, fade(black, 0.5)))

	gb := glyph.Bounds()
	drawAt(pill, glyph, padX+(g-float64(gb.Dx()))/2, (h-float64(gb.Dy()))/2)
	if text != "" {
		drawString(pill, face, text, padX+g+gap, (h-tb.H())/2, colorOr(wm.TextColor, white))
	}
	return pill, nil
}

func (r *Rasterizer) watermarkGlyph(ctx context.Context, wm *layout.WatermarkOverlay, k float64, allowRemote bool) (image.Image, error) {
	size := max(1, int(math.Round(wm.GlyphSize*k)))
	switch wm.Glyph {
	case layout.GlyphLogo:
		px, err := r.pixels(ctx, wm.Logo, allowRemote)
		if err != nil {
			return nil, err
		}
		return containResize(px, float64(size), float64(size), imaging.Lanczos), nil

	case layout.GlyphQR:
		q, err := qrcode.New(wm.Link, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("watermark QR: %w", err)
		}
		q.DisableBorder = true
		// Bitmap modules scaled up with nearest-neighbor stay crisp.
		return containResize(q.Image(size), float64(size), float64(size), imaging.NearestNeighbor), nil

	default:
		return monitorGlyph(size, colorOr(wm.TextColor, white)), nil
	}
}

// monitorGlyph draws a small outlined display on a stand.
func monitorGlyph(size int, c color.NRGBA) *image.RGBA {
	s := float64(size)
	stroke := math.Max(1, s/12)
	dc := gg.NewContext(size, size)
	dc.SetColor(c)
	dc.SetLineWidth(stroke)

	screenY, screenH := s*0.12, s*0.6
	dc.DrawRoundedRectangle(stroke/2, screenY+stroke/2, s-stroke, screenH-stroke, s/10)
	dc.Stroke()

	dc.DrawRectangle(s/2-stroke/2, screenY+screenH, stroke, s*0.14)
	dc.DrawRectangle(s*0.3, s*0.86-stroke/2, s*0.4, stroke)
	dc.Fill()
	return dc.Image().(*image.RGBA)
}
