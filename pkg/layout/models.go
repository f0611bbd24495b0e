// Package layout resolves a Composition into a visual stack: an ordered list
// of layers with concrete geometry and paint. Resolution is pure.
package layout

import "github.com/xob0t/SnapPolish/pkg/composition"

// ── Geometry ──

// Rect is an axis-aligned box in CSS pixels at 1×.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Point is a position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Center returns the middle of r.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// ── Layers ──

// LayerKind identifies a layer. The numeric order is the paint order.
type LayerKind int

const (
	LayerCanvas LayerKind = iota
	LayerFrame
	LayerChrome
	LayerSubject
	LayerBadge
	LayerWatermark
)

// String returns a human-readable name for the layer kind.
func (k LayerKind) String() string {
	switch k {
	case LayerCanvas:
		return "canvas"
	case LayerFrame:
		return "frame"
	case LayerChrome:
		return "chrome"
	case LayerSubject:
		return "subject"
	case LayerBadge:
		return "badge"
	case LayerWatermark:
		return "watermark"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k LayerKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Layer is one entry of the stack. The canvas and frame boxes are in root
// coordinates; every later box is relative to the frame's top-left corner,
// because those layers move with the frame transform. Exactly one payload
// pointer matching Kind is set.
type Layer struct {
	Kind LayerKind `json:"kind"`
	Box  Rect      `json:"box"`

	Canvas    *CanvasPaint      `json:"canvas,omitempty"`
	Frame     *FrameStyle       `json:"frame,omitempty"`
	Chrome    *Chrome           `json:"chrome,omitempty"`
	Subject   *Subject          `json:"subject,omitempty"`
	Badge     *BadgeOverlay     `json:"badge,omitempty"`
	Watermark *WatermarkOverlay `json:"watermark,omitempty"`
}

// Stack is the resolved visual stack. Width and Height are the root box at 1×.
type Stack struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Layers []Layer `json:"layers"`
}

// Layer returns the first layer of kind k.
func (s *Stack) Layer(k LayerKind) (Layer, bool) {
	for _, l := range s.Layers {
		if l.Kind == k {
			return l, true
		}
	}
	return Layer{}, false
}

// ── Canvas ──

// Tile is a repeating pattern cell.
type Tile struct {
	Pattern   composition.PatternID `json:"pattern"`
	Size      float64               `json:"size"`
	Ink       string                `json:"ink"`
	DotRadius float64               `json:"dotRadius,omitempty"`
	LineWidth float64               `json:"lineWidth,omitempty"`
}

// CanvasPaint describes the outer background. Fill is always set and is the
// base color under a gradient, tile or image.
type CanvasPaint struct {
	Type     composition.BackgroundType `json:"type"`
	Fill     string                     `json:"fill"`
	Gradient *composition.Gradient      `json:"gradient,omitempty"`
	Tile     *Tile                      `json:"tile,omitempty"`
	Image    *composition.Image         `json:"image,omitempty"`
}

// ── Frame ──

// Shadow is a CSS-style box shadow.
type Shadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	Color   string  `json:"color"`
}

// None reports whether the shadow draws nothing.
func (s Shadow) None() bool { return s.Color == "" }

// FrameStyle is the subject frame's paint and transform. An empty Fill is
// transparent.
type FrameStyle struct {
	Radius    float64   `json:"radius"`
	Fill      string    `json:"fill,omitempty"`
	Shadow    Shadow    `json:"shadow"`
	Transform Transform `json:"transform"`
	// Quad is the projected outline of the frame box in canvas units.
	Quad [4]Point `json:"quad"`
}

// ── Chrome ──

// Dot is a decorative window control.
type Dot struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// Pill is a rounded text container.
type Pill struct {
	Box       Rect    `json:"box"`
	Radius    float64 `json:"radius"`
	Fill      string  `json:"fill"`
	TextColor string  `json:"textColor"`
	Text      string  `json:"text"`
	FontSize  float64 `json:"fontSize"`
	Opacity   float64 `json:"opacity"`
}

// Chrome is the mockup decoration. Browser chrome sets Bar, Dots and Label;
// phone chrome sets Notch.
type Chrome struct {
	Mockup      composition.Mockup `json:"mockup"`
	Bar         Rect               `json:"bar"`
	BarFill     string             `json:"barFill"`
	BorderColor string             `json:"borderColor,omitempty"`
	Dots        []Dot              `json:"dots,omitempty"`
	Label       *Pill              `json:"label,omitempty"`
	Notch       *Rect              `json:"notch,omitempty"`
	NotchRadius float64            `json:"notchRadius,omitempty"`
	NotchFill   string             `json:"notchFill,omitempty"`
}

// ── Subject ──

// Subject is the loaded image, fitted with "contain" inside Box.
type Subject struct {
	Image   *composition.Image `json:"image"`
	Fit     string             `json:"fit"`
	Filters FilterChain        `json:"filters"`
	// CSS is Filters as a CSS filter value, for preview clients.
	CSS string `json:"css,omitempty"`
}

// ── Overlays ──

// BadgeOverlay is anchored at Corner with Inset from both edges of the frame
// and rotated about its own center. Its size follows the text.
type BadgeOverlay struct {
	Text        string             `json:"text"`
	Corner      composition.Corner `json:"corner"`
	Inset       float64            `json:"inset"`
	RotationDeg float64            `json:"rotationDeg"`
	Fill        string             `json:"fill"`
	TextColor   string             `json:"textColor"`
	FontSize    float64            `json:"fontSize"`
	PadX        float64            `json:"padX"`
	PadY        float64            `json:"padY"`
	Radius      float64            `json:"radius"`
}

// Glyph selects the watermark icon.
type Glyph string

const (
	GlyphMonitor Glyph = "monitor"
	GlyphLogo    Glyph = "logo"
	GlyphQR      Glyph = "qr"
)

// WatermarkOverlay is the bottom-right brand pill.
type WatermarkOverlay struct {
	Text      string             `json:"text"`
	Glyph     Glyph              `json:"glyph"`
	Logo      *composition.Image `json:"logo,omitempty"`
	Link      string             `json:"link,omitempty"`
	Corner    composition.Corner `json:"corner"`
	Inset     float64            `json:"inset"`
	GlyphSize float64            `json:"glyphSize"`
	FontSize  float64            `json:"fontSize"`
	PadX      float64            `json:"padX"`
	PadY      float64            `json:"padY"`
	Gap       float64            `json:"gap"`
	Radius    float64            `json:"radius"`
	Fill      string             `json:"fill"`
	TextColor string             `json:"textColor"`
	Opacity   float64            `json:"opacity"`
}
