// Package composition holds the styling model of one screenshot export:
// every presentation parameter plus the subject image. Values are replaced,
// never edited in place: Update and ApplyPreset return a new Composition.
package composition

// ── Enumerations ──

// Mockup is the chrome wrapped around the subject image.
type Mockup string

const (
	MockupBrowser Mockup = "browser"
	MockupPhone   Mockup = "phone"
	MockupNone    Mockup = "none"
)

// AspectRatio constrains the outer canvas box.
type AspectRatio string

const (
	AspectAuto     AspectRatio = "auto"
	AspectSquare   AspectRatio = "1:1"
	AspectWide     AspectRatio = "16:9"
	AspectPortrait AspectRatio = "4:5"
	AspectVertical AspectRatio = "9:16"
)

// Ratio returns width and height terms; ok is false for AspectAuto.
func (a AspectRatio) Ratio() (w, h float64, ok bool) {
	switch a {
	case AspectSquare:
		return 1, 1, true
	case AspectWide:
		return 16, 9, true
	case AspectPortrait:
		return 4, 5, true
	case AspectVertical:
		return 9, 16, true
	}
	return 0, 0, false
}

// Corner anchors an overlay.
type Corner string

const (
	TopLeft     Corner = "top-left"
	TopRight    Corner = "top-right"
	BottomLeft  Corner = "bottom-left"
	BottomRight Corner = "bottom-right"
)

func validMockup(m Mockup) bool {
	return m == MockupBrowser || m == MockupPhone || m == MockupNone
}

func validAspect(a AspectRatio) bool {
	_, _, ok := a.Ratio()
	return ok || a == AspectAuto
}

func validCorner(c Corner) bool {
	return c == TopLeft || c == TopRight || c == BottomLeft || c == BottomRight
}

// ── Composition ──

// Composition is the full set of styling parameters for one export.
type Composition struct {
	Padding      float64    `json:"padding"`
	ShadowLevel  int        `json:"shadowLevel"`
	BorderRadius float64    `json:"borderRadius"`
	Background   Background `json:"background"`
	// CustomBackground keeps the last uploaded background image while
	// another background type is active.
	CustomBackground *Image `json:"customBackground,omitempty"`

	Mockup       Mockup `json:"mockup"`
	BrowserLabel string `json:"browserLabel"`
	DarkMode     bool   `json:"darkMode"`

	ScalePercent float64 `json:"scalePercent"`
	RotateDeg    float64 `json:"rotateDeg"`
	TiltDeg      float64 `json:"tiltDeg"`

	Filters     Filters     `json:"filters"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	Watermark   Watermark   `json:"watermark"`
	Badge       Badge       `json:"badge"`
	Subject     *Image      `json:"subject"`
}

// Filters is the subject color-filter chain input. 100 is identity for the
// percentage fields.
type Filters struct {
	Brightness       float64 `json:"brightness"`
	Contrast         float64 `json:"contrast"`
	BlurPx           float64 `json:"blurPx"`
	GrayscalePercent float64 `json:"grayscalePercent"`
}

// Watermark is the bottom-right brand pill.
type Watermark struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
	Logo    *Image `json:"logo,omitempty"`
	// Link, when set and no Logo is present, is drawn as a QR glyph.
	Link string `json:"link,omitempty"`
}

// Badge is the promotional corner label. It is drawn only when Text is set.
type Badge struct {
	Text            string  `json:"text"`
	BackgroundColor string  `json:"backgroundColor"`
	TextColor       string  `json:"textColor"`
	RotationDeg     float64 `json:"rotationDeg"`
	Position        Corner  `json:"position"`
}

// Visible reports whether the badge is rendered.
func (b Badge) Visible() bool { return b.Text != "" }

// ── Bounds ──

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max float64
}

var (
	PaddingRange     = Range{0, 200}
	ShadowRange      = Range{0, 5}
	RadiusRange      = Range{0, 64}
	ScaleRange       = Range{50, 150}
	RotateRange      = Range{-20, 20}
	TiltRange        = Range{-20, 20}
	BrightnessRange  = Range{50, 150}
	ContrastRange    = Range{50, 150}
	BlurRange        = Range{0, 10}
	GrayscaleRange   = Range{0, 100}
	BadgeRotateRange = Range{-45, 45}
)

// ── Defaults ──

// Default returns the composition a session starts with.
func Default() Composition {
	return Composition{
		Padding:      40,
		ShadowLevel:  3,
		BorderRadius: 16,
		Background:   Indigo,
		Mockup:       MockupBrowser,
		BrowserLabel: "snappolish.com",
		DarkMode:     true,
		ScalePercent: 100,
		Filters: Filters{
			Brightness: 100,
			Contrast:   100,
		},
		AspectRatio: AspectAuto,
		Watermark: Watermark{
			Enabled: true,
			Text:    "SnapPolish",
		},
		Badge: Badge{
			BackgroundColor: "#f43f5e",
			TextColor:       "#ffffff",
			Position:        TopRight,
		},
		Subject: Placeholder(),
	}
}
