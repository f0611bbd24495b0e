// resolver.go — Composition → visual stack.
// Layers are emitted in a fixed paint order: canvas -> frame -> chrome ->
// subject -> badge -> watermark.
package layout

import (
	"math"

	"github.com/xob0t/SnapPolish/pkg/composition"
)

// Subject images are scaled down, never up, to fit this box.
const (
	MaxSubjectWidth  = 960
	MaxSubjectHeight = 640
)

const (
	BrowserBarHeight  = 32
	PhoneRadius       = 40
	PhoneBezel        = 12
	PhoneStatusHeight = 32
	OverlayInset      = 16
	PatternTileSize   = 20
)

const (
	PatternBase = "#f8fafc"
	PatternInk  = "#cbd5e1"

	frameDark  = "#0f172a"
	frameLight = "#ffffff"
)

// Shadows maps shadow levels 0..5 to box shadows; level 0 is none.
var Shadows = [...]Shadow{
	{},
	{OffsetY: 1, Blur: 2, Color: "#0000000d"},
	{OffsetY: 4, Blur: 6, Spread: -1, Color: "#0000001a"},
	{OffsetY: 20, Blur: 25, Spread: -5, Color: "#0000001a"},
	{OffsetY: 25, Blur: 50, Spread: -12, Color: "#00000040"},
	{OffsetY: 35, Blur: 60, Spread: -15, Color: "#00000080"},
}

// Resolve derives the visual stack for c. It has no side effects and the same
// Composition always yields an equal Stack.
func Resolve(c composition.Composition) *Stack {
	subjectW, subjectH := fitSubject(c.Subject)
	top, bezel := chromeInsets(c.Mockup)

	frameW := subjectW + 2*bezel
	frameH := top + subjectH + bezel
	width, height := canvasSize(frameW+2*c.Padding, frameH+2*c.Padding, c.AspectRatio)

	frameBox := Rect{X: (width - frameW) / 2, Y: (height - frameH) / 2, W: frameW, H: frameH}
	local := Rect{W: frameW, H: frameH}

	frame := resolveFrame(c)
	frame.Quad = frame.Transform.Quad(frameBox)

	s := &Stack{Width: width, Height: height}
	s.Layers = append(s.Layers,
		Layer{Kind: LayerCanvas, Box: Rect{W: width, H: height}, Canvas: resolveCanvas(c)},
		Layer{Kind: LayerFrame, Box: frameBox, Frame: frame},
	)

	if ch := resolveChrome(c, local); ch != nil {
		s.Layers = append(s.Layers, Layer{Kind: LayerChrome, Box: local, Chrome: ch})
	}

	filters := NewFilterChain(c.Filters)
	s.Layers = append(s.Layers, Layer{
		Kind: LayerSubject,
		Box:  Rect{X: bezel, Y: top, W: subjectW, H: subjectH},
		Subject: &Subject{
			Image:   c.Subject,
			Fit:     "contain",
			Filters: filters,
			CSS:     filters.CSS(),
		},
	})

	if c.Badge.Visible() {
		s.Layers = append(s.Layers, Layer{Kind: LayerBadge, Box: local, Badge: resolveBadge(c.Badge)})
	}
	if c.Watermark.Enabled {
		s.Layers = append(s.Layers, Layer{Kind: LayerWatermark, Box: local, Watermark: resolveWatermark(c.Watermark)})
	}
	return s
}

// fitSubject returns the displayed subject size: natural size scaled down to
// the max box, rounded to whole pixels.
func fitSubject(img *composition.Image) (float64, float64) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		img = composition.Placeholder()
	}
	w, h := float64(img.Width), float64(img.Height)
	s := math.Min(1, math.Min(MaxSubjectWidth/w, MaxSubjectHeight/h))
	return math.Max(1, math.Round(w*s)), math.Max(1, math.Round(h*s))
}

// chromeInsets returns the space the mockup reserves above the subject and
// around its other sides.
func chromeInsets(m composition.Mockup) (top, bezel float64) {
	switch m {
	case composition.MockupBrowser:
		return BrowserBarHeight, 0
	case composition.MockupPhone:
		return PhoneStatusHeight, PhoneBezel
	}
	return 0, 0
}

// canvasSize grows the content box along one axis until it matches the
// aspect ratio. Content always fits; auto keeps the content size.
func canvasSize(w, h float64, a composition.AspectRatio) (float64, float64) {
	rw, rh, ok := a.Ratio()
	if !ok {
		return w, h
	}
	if w/h < rw/rh {
		return h * rw / rh, h
	}
	return w, w * rh / rw
}

func resolveCanvas(c composition.Composition) *CanvasPaint {
	switch bg := c.Background.(type) {
	case composition.Solid:
		return &CanvasPaint{Type: composition.BackgroundSolid, Fill: bg.Color}
	case composition.Gradient:
		g := bg
		g.Stops = append([]composition.GradientStop(nil), bg.Stops...)
		fill := PatternBase
		if len(g.Stops) > 0 {
			fill = g.Stops[0].Color
		}
		return &CanvasPaint{Type: composition.BackgroundGradient, Fill: fill, Gradient: &g}
	case composition.Pattern:
		tile := &Tile{Pattern: bg.ID, Size: PatternTileSize, Ink: PatternInk}
		if bg.ID == composition.PatternDots {
			tile.DotRadius = 1.5
		} else {
			tile.LineWidth = 1
		}
		return &CanvasPaint{Type: composition.BackgroundPattern, Fill: PatternBase, Tile: tile}
	case composition.ImageFill:
		return &CanvasPaint{Type: composition.BackgroundImage, Fill: frameDark, Image: bg.Ref}
	}
	return &CanvasPaint{Type: composition.BackgroundSolid, Fill: PatternBase}
}

func resolveFrame(c composition.Composition) *FrameStyle {
	f := &FrameStyle{
		Radius:    c.BorderRadius,
		Shadow:    Shadows[min(max(c.ShadowLevel, 0), len(Shadows)-1)],
		Transform: NewTransform(c.ScalePercent, c.RotateDeg, c.TiltDeg),
	}
	if c.Mockup == composition.MockupPhone {
		f.Radius = PhoneRadius
	}
	if c.Mockup != composition.MockupNone {
		f.Fill = frameFill(c.DarkMode)
	}
	return f
}

func frameFill(dark bool) string {
	if dark {
		return frameDark
	}
	return frameLight
}

func resolveChrome(c composition.Composition, frame Rect) *Chrome {
	switch c.Mockup {
	case composition.MockupBrowser:
		const (
			dotRadius = 6
			dotGap    = 8
			barPadX   = 16
			labelH    = 20
		)
		ch := &Chrome{
			Mockup:  composition.MockupBrowser,
			Bar:     Rect{W: frame.W, H: BrowserBarHeight},
			BarFill: frameFill(c.DarkMode),
		}
		x := float64(barPadX)
		for _, color := range []string{"#f43f5e", "#fbbf24", "#34d399"} {
			ch.Dots = append(ch.Dots, Dot{
				Center: Point{X: x + dotRadius, Y: BrowserBarHeight / 2},
				Radius: dotRadius,
				Color:  color,
			})
			x += 2*dotRadius + dotGap
		}
		labelX := x - dotGap + barPadX
		label := &Pill{
			Box:      Rect{X: labelX, Y: (BrowserBarHeight - labelH) / 2, W: math.Max(0, frame.W-labelX-barPadX), H: labelH},
			Radius:   6,
			Text:     c.BrowserLabel,
			FontSize: 10,
			Opacity:  0.3,
		}
		if c.DarkMode {
			ch.BorderColor = "#1e293b"
			label.Fill, label.TextColor = "#1e293b", "#ffffff"
		} else {
			ch.BorderColor = "#f1f5f9"
			label.Fill, label.TextColor = "#f1f5f9", "#1e293b"
		}
		ch.Label = label
		return ch

	case composition.MockupPhone:
		const notchW, notchH = 120, 24
		return &Chrome{
			Mockup:      composition.MockupPhone,
			Bar:         Rect{W: frame.W, H: PhoneStatusHeight},
			BarFill:     frameFill(c.DarkMode),
			Notch:       &Rect{X: (frame.W - notchW) / 2, W: notchW, H: notchH},
			NotchRadius: 12,
			NotchFill:   "#000000",
		}
	}
	return nil
}

func resolveBadge(b composition.Badge) *BadgeOverlay {
	return &BadgeOverlay{
		Text:        b.Text,
		Corner:      b.Position,
		Inset:       OverlayInset,
		RotationDeg: b.RotationDeg,
		Fill:        b.BackgroundColor,
		TextColor:   b.TextColor,
		FontSize:    14,
		PadX:        12,
		PadY:        6,
		Radius:      6,
	}
}

func resolveWatermark(w composition.Watermark) *WatermarkOverlay {
	o := &WatermarkOverlay{
		Text:      w.Text,
		Glyph:     GlyphMonitor,
		Corner:    composition.BottomRight,
		Inset:     OverlayInset,
		GlyphSize: 10,
		FontSize:  10,
		PadX:      8,
		PadY:      4,
		Gap:       6,
		Radius:    4,
		Fill:      "#00000080",
		TextColor: "#ffffff",
		Opacity:   0.3,
	}
	switch {
	case w.Logo != nil:
		o.Glyph, o.Logo = GlyphLogo, w.Logo
	case w.Link != "":
		o.Glyph, o.Link = GlyphQR, w.Link
		o.GlyphSize = 16
	}
	return o
}
