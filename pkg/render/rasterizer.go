// Package render rasterizes a resolved visual stack into pixels. It is the
// export pipeline's Rasterizer: the canvas is painted, the frame and its
// frame-local layers are drawn into a sprite with the drop shadow, and the
// sprite is placed through the frame transform.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"net/http"
	"time"

	"github.com/disintegration/imaging"

	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/layout"
)

var (
	ErrTainted        = errors.New("tainted canvas: cross-origin image not allowed")
	ErrTooLarge       = errors.New("capture exceeds the pixel budget")
	ErrImage          = errors.New("image unavailable")
	ErrInvalidOptions = errors.New("invalid capture options")
)

// Defaults for Options.
const (
	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxPixels    = 64 << 20
)

// Logger receives non-fatal rendering warnings.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Options configures a Rasterizer.
type Options struct {
	// FontPath is an optional TTF/OTF used for the regular text face.
	FontPath     string
	FetchTimeout time.Duration
	// MaxPixels caps output width×height; zero means DefaultMaxPixels and a
	// negative value disables the cap.
	MaxPixels int
	Logger    Logger
	// Client overrides the HTTP client used for remote images.
	Client *http.Client
}

// Rasterizer is safe for concurrent use. Each draw creates its own font
// faces; parsed fonts and fetched images are shared.
type Rasterizer struct {
	fonts     *FontManager
	client    *http.Client
	maxPixels int
	cache     remoteCache
}

var _ export.Rasterizer = (*Rasterizer)(nil)

// New loads fonts and returns a ready Rasterizer.
func New(opts Options) (*Rasterizer, error) {
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.MaxPixels == 0 {
		opts.MaxPixels = DefaultMaxPixels
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.FetchTimeout}
	}

	fonts, err := NewFontManager(opts.FontPath, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Rasterizer{
		fonts:     fonts,
		client:    client,
		maxPixels: opts.MaxPixels,
		cache:     remoteCache{images: make(map[string]image.Image)},
	}, nil
}

// Capture renders stack and encodes it as PNG.
func (r *Rasterizer) Capture(ctx context.Context, stack *layout.Stack, opts export.CaptureOptions) ([]byte, error) {
	img, err := r.Render(ctx, stack, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Render draws stack at opts.Multiplier. The output is Width×Height scaled
// by the multiplier and rounded.
func (r *Rasterizer) Render(ctx context.Context, stack *layout.Stack, opts export.CaptureOptions) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := opts.Multiplier
	if stack == nil || !(k > 0) || math.IsInf(k, 0) {
		return nil, fmt.Errorf("%w: multiplier %v", ErrInvalidOptions, k)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = stack.Width, stack.Height
	}
	w, h := int(math.Round(opts.Width*k)), int(math.Round(opts.Height*k))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: size %vx%v", ErrInvalidOptions, opts.Width, opts.Height)
	}
	if err := r.fits(w, h); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg, ok := stack.Layer(layout.LayerCanvas); ok && bg.Canvas != nil && !opts.TransparentBackground {
		if err := r.paintCanvas(ctx, dst, bg.Canvas, k, opts.AllowCrossOrigin); err != nil {
			return nil, err
		}
	}
	frame, ok := stack.Layer(layout.LayerFrame)
	if !ok || frame.Frame == nil {
		return dst, nil
	}
	var local []layout.Layer
	for _, l := range stack.Layers {
		if l.Kind != layout.LayerCanvas && l.Kind != layout.LayerFrame {
			local = append(local, l)
		}
	}

	content, err := r.frameContent(ctx, &frame, local, k, opts.AllowCrossOrigin)
	if err != nil {
		return nil, err
	}
	sprite, pivot := frameSprite(content, frame.Frame, k)
	center := frame.Box.Center()
	warp(dst, sprite, frame.Frame.Transform, pivot, layout.Point{X: center.X * k, Y: center.Y * k}, k)
	return dst, nil
}

// fits reports ErrTooLarge when a w×h buffer exceeds the pixel budget.
func (r *Rasterizer) fits(w, h int) error {
	if r.maxPixels > 0 && w*h > r.maxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, w, h)
	}
	return nil
}

// frameContent draws the frame fill and the frame-local layers, clipped to
// the frame's rounded box.
func (r *Rasterizer) frameContent(ctx context.Context, frame *layout.Layer, layers []layout.Layer, k float64, allowRemote bool) (*image.RGBA, error) {
	fw, fh := int(math.Ceil(frame.Box.W*k)), int(math.Ceil(frame.Box.H*k))
	content := image.NewRGBA(image.Rect(0, 0, max(fw, 1), max(fh, 1)))
	if frame.Frame.Fill != "" {
		draw.Draw(content, content.Bounds(), image.NewUniform(colorOr(frame.Frame.Fill, white)), image.Point{}, draw.Src)
	}

	for _, l := range layers {
		var err error
		switch {
		case l.Chrome != nil:
			err = r.drawChrome(content, l.Chrome, k)
		case l.Subject != nil:
			err = r.drawSubject(ctx, content, l.Box, l.Subject, k, allowRemote)
		case l.Badge != nil:
			err = r.drawBadge(content, frame.Box, l.Badge, k)
		case l.Watermark != nil:
			err = r.drawWatermark(ctx, content, frame.Box, l.Watermark, k, allowRemote)
		}
		if err != nil {
			return nil, fmt.Errorf("draw %s: %w", l.Kind, err)
		}
	}

	return clipRoundedRect(content, frame.Frame.Radius*k), nil
}

// frameSprite places content on a margin large enough for its shadow and
// returns the sprite with the content center in sprite coordinates.
func frameSprite(content *image.RGBA, style *layout.FrameStyle, k float64) (*image.RGBA, layout.Point) {
	cb := content.Bounds()
	cw, ch := float64(cb.Dx()), float64(cb.Dy())
	sh := style.Shadow

	margin := 0
	if !sh.None() {
		extent := sh.Blur + math.Abs(sh.Spread) + math.Max(math.Abs(sh.OffsetX), math.Abs(sh.OffsetY))
		margin = int(math.Ceil(extent*k)) + 2
	}
	m := float64(margin)
	sprite := image.NewRGBA(image.Rect(0, 0, cb.Dx()+2*margin, cb.Dy()+2*margin))

	if !sh.None() {
		spread := sh.Spread * k
		silhouette := image.NewRGBA(sprite.Bounds())
		fillRoundedRect(silhouette, rectf{
			X: m + sh.OffsetX*k - spread,
			Y: m + sh.OffsetY*k - spread,
			W: cw + 2*spread,
			H: ch + 2*spread,
		}, math.Max(style.Radius*k+spread, 0), colorOr(sh.Color, fade(black, 0.25)))

		var shadow image.Image = silhouette
		if sh.Blur > 0 {
			// CSS blur radius is twice the Gaussian sigma.
			shadow = imaging.Blur(silhouette, sh.Blur*k/2)
		}
		draw.Draw(sprite, sprite.Bounds(), shadow, image.Point{}, draw.Over)
	}

	draw.Draw(sprite, cb.Add(image.Pt(margin, margin)), content, cb.Min, draw.Over)
	return sprite, layout.Point{X: m + cw/2, Y: m + ch/2}
}

// drawSubject contain-fits the subject into box and applies its filters.
func (r *Rasterizer) drawSubject(ctx context.Context, dst *image.RGBA, box layout.Rect, s *layout.Subject, k float64, allowRemote bool) error {
	ref := s.Image
	if ref == nil {
		ref = composition.Placeholder()
	}
	px, err := r.pixels(ctx, ref, allowRemote)
	if err != nil {
		return err
	}

	b := scaled(box, k)
	fitted := containResize(px, b.W, b.H, imaging.Lanczos)
	filtered := applyFilters(fitted, s.Filters, k)
	fb := filtered.Bounds()
	drawAt(dst, filtered, b.X+(b.W-float64(fb.Dx()))/2, b.Y+(b.H-float64(fb.Dy()))/2)
	return nil
}

// containResize scales img to the largest size that fits w×h, keeping its
// aspect ratio.
func containResize(img image.Image, w, h float64, filter imaging.ResampleFilter) image.Image {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	s := math.Min(w/float64(b.Dx()), h/float64(b.Dy()))
	tw := max(1, int(math.Round(float64(b.Dx())*s)))
	th := max(1, int(math.Round(float64(b.Dy())*s)))
	if tw == b.Dx() && th == b.Dy() {
		return img
	}
	return imaging.Resize(img, tw, th, filter)
}
