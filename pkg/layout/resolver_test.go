package layout

import (
	"image"
	"math"
	"reflect"
	"testing"

	"github.com/xob0t/SnapPolish/pkg/composition"
)

func subject(w, h int) *composition.Image {
	return composition.NewImage("subject", "shot.png", image.NewNRGBA(image.Rect(0, 0, w, h)))
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResolveIsDeterministic(t *testing.T) {
	c := composition.Default().Update(composition.Partial{
		Subject:     subject(400, 300),
		TiltDeg:     composition.Ptr(12.0),
		RotateDeg:   composition.Ptr(-5.0),
		Background:  composition.Pattern{ID: composition.PatternDots},
		AspectRatio: composition.Ptr(composition.AspectWide),
		Badge:       composition.BadgePartial{Text: composition.Ptr("NEW")},
	})

	first, second := Resolve(c), Resolve(c)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Resolve returned different stacks for the same composition")
	}
}

func TestResolveLayerOrder(t *testing.T) {
	tests := []struct {
		name   string
		mockup composition.Mockup
		badge  string
		mark   bool
		want   []LayerKind
	}{
		{
			name: "everything", mockup: composition.MockupBrowser, badge: "NEW", mark: true,
			want: []LayerKind{LayerCanvas, LayerFrame, LayerChrome, LayerSubject, LayerBadge, LayerWatermark},
		},
		{
			name: "no chrome", mockup: composition.MockupNone, badge: "NEW", mark: true,
			want: []LayerKind{LayerCanvas, LayerFrame, LayerSubject, LayerBadge, LayerWatermark},
		},
		{
			name: "no badge", mockup: composition.MockupPhone, mark: true,
			want: []LayerKind{LayerCanvas, LayerFrame, LayerChrome, LayerSubject, LayerWatermark},
		},
		{
			name: "no overlays", mockup: composition.MockupBrowser,
			want: []LayerKind{LayerCanvas, LayerFrame, LayerChrome, LayerSubject},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := composition.Default().Update(composition.Partial{
				Mockup:    composition.Ptr(tt.mockup),
				Badge:     composition.BadgePartial{Text: composition.Ptr(tt.badge)},
				Watermark: composition.WatermarkPartial{Enabled: composition.Ptr(tt.mark)},
			})
			s := Resolve(c)

			got := make([]LayerKind, len(s.Layers))
			for i, l := range s.Layers {
				got[i] = l.Kind
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("layers = %v, want %v", got, tt.want)
			}

			if tt.badge != "" && tt.mark {
				b, w := indexOf(s, LayerBadge), indexOf(s, LayerWatermark)
				if b >= w {
					t.Errorf("badge index %d not below watermark index %d", b, w)
				}
				if w != len(s.Layers)-1 {
					t.Errorf("watermark at %d, want topmost", w)
				}
			}
			if ch := indexOf(s, LayerChrome); ch >= 0 && ch > indexOf(s, LayerSubject) {
				t.Error("chrome painted above the subject")
			}
		})
	}
}

func TestResolvePortraitPhone(t *testing.T) {
	c := composition.Default().Update(composition.Partial{
		Subject:      subject(800, 600),
		AspectRatio:  composition.Ptr(composition.AspectPortrait),
		Mockup:       composition.Ptr(composition.MockupPhone),
		BorderRadius: composition.Ptr(16.0),
	})
	if c.BorderRadius != 16 {
		t.Fatalf("BorderRadius stored as %v, want 16", c.BorderRadius)
	}

	s := Resolve(c)
	if !near(s.Width/s.Height, 4.0/5.0) {
		t.Errorf("canvas %vx%v is not 4:5", s.Width, s.Height)
	}

	frame, _ := s.Layer(LayerFrame)
	if frame.Frame.Radius != PhoneRadius {
		t.Errorf("frame radius = %v, want phone radius %d", frame.Frame.Radius, PhoneRadius)
	}
	if frame.Box.W > s.Width || frame.Box.H > s.Height {
		t.Errorf("frame %+v does not fit canvas %vx%v", frame.Box, s.Width, s.Height)
	}

	chrome, ok := s.Layer(LayerChrome)
	if !ok || chrome.Chrome.Notch == nil {
		t.Fatal("phone chrome has no notch")
	}
	if n := chrome.Chrome.Notch; !near(n.X+n.W/2, frame.Box.W/2) {
		t.Errorf("notch %+v is not centered in frame width %v", *n, frame.Box.W)
	}
}

func TestResolveAutoSizesToContent(t *testing.T) {
	c := composition.Default().Update(composition.Partial{
		Subject: subject(400, 300),
		Padding: composition.Ptr(20.0),
		Mockup:  composition.Ptr(composition.MockupBrowser),
	})
	s := Resolve(c)

	if s.Width != 440 || s.Height != 300+BrowserBarHeight+40 {
		t.Errorf("canvas = %vx%v, want 440x%d", s.Width, s.Height, 300+BrowserBarHeight+40)
	}
	sub, _ := s.Layer(LayerSubject)
	if sub.Box != (Rect{X: 0, Y: BrowserBarHeight, W: 400, H: 300}) {
		t.Errorf("subject box = %+v", sub.Box)
	}
}

func TestResolveScalesLargeSubjectsDown(t *testing.T) {
	s := Resolve(composition.Default().Update(composition.Partial{
		Subject: subject(3840, 2160),
		Mockup:  composition.Ptr(composition.MockupNone),
	}))
	sub, _ := s.Layer(LayerSubject)
	if sub.Box.W > MaxSubjectWidth || sub.Box.H > MaxSubjectHeight {
		t.Errorf("subject %vx%v exceeds the max box", sub.Box.W, sub.Box.H)
	}
	if !near(math.Round(sub.Box.W/sub.Box.H*100), math.Round(3840.0/2160.0*100)) {
		t.Errorf("subject aspect changed: %vx%v", sub.Box.W, sub.Box.H)
	}
}

func TestResolveFrameFill(t *testing.T) {
	tests := []struct {
		mockup composition.Mockup
		dark   bool
		want   string
	}{
		{composition.MockupNone, true, ""},
		{composition.MockupBrowser, true, "#0f172a"},
		{composition.MockupBrowser, false, "#ffffff"},
		{composition.MockupPhone, false, "#ffffff"},
	}
	for _, tt := range tests {
		c := composition.Default().Update(composition.Partial{Mockup: composition.Ptr(tt.mockup), DarkMode: composition.Ptr(tt.dark)})
		frame, _ := Resolve(c).Layer(LayerFrame)
		if frame.Frame.Fill != tt.want {
			t.Errorf("%s dark=%v: fill %q, want %q", tt.mockup, tt.dark, frame.Frame.Fill, tt.want)
		}
	}
}

func TestResolveBrowserChrome(t *testing.T) {
	c := composition.Default().Update(composition.Partial{BrowserLabel: composition.Ptr("acme.dev")})
	chrome, ok := Resolve(c).Layer(LayerChrome)
	if !ok {
		t.Fatal("browser mockup has no chrome layer")
	}
	want := []string{"#f43f5e", "#fbbf24", "#34d399"}
	if len(chrome.Chrome.Dots) != 3 {
		t.Fatalf("got %d dots, want 3", len(chrome.Chrome.Dots))
	}
	for i, d := range chrome.Chrome.Dots {
		if d.Color != want[i] {
			t.Errorf("dot %d color %s, want %s", i, d.Color, want[i])
		}
		if i > 0 && d.Center.X <= chrome.Chrome.Dots[i-1].Center.X {
			t.Error("dots are not ordered left to right")
		}
	}
	if chrome.Chrome.Label == nil || chrome.Chrome.Label.Text != "acme.dev" {
		t.Errorf("label = %+v", chrome.Chrome.Label)
	}
}

func TestResolvePatternUsesFixedBase(t *testing.T) {
	c := composition.Default().Update(composition.Partial{Background: composition.Solid{Color: "#123456"}})
	c = c.Update(composition.Partial{Background: composition.Pattern{ID: composition.PatternGrid}})

	canvas, _ := Resolve(c).Layer(LayerCanvas)
	if canvas.Canvas.Fill != PatternBase {
		t.Errorf("pattern base = %s, want %s", canvas.Canvas.Fill, PatternBase)
	}
	if canvas.Canvas.Tile == nil || canvas.Canvas.Tile.Size != PatternTileSize || canvas.Canvas.Tile.LineWidth == 0 {
		t.Errorf("tile = %+v", canvas.Canvas.Tile)
	}
}

func TestResolveFilterChainOrder(t *testing.T) {
	// Set in reverse order to show the chain order does not follow it.
	c := composition.Default().
		Update(composition.Partial{GrayscalePercent: composition.Ptr(50.0)}).
		Update(composition.Partial{BlurPx: composition.Ptr(4.0)}).
		Update(composition.Partial{Contrast: composition.Ptr(80.0)}).
		Update(composition.Partial{Brightness: composition.Ptr(120.0)})

	sub, _ := Resolve(c).Layer(LayerSubject)
	want := FilterChain{
		{Kind: FilterBrightness, Amount: 120},
		{Kind: FilterContrast, Amount: 80},
		{Kind: FilterBlur, Amount: 4},
		{Kind: FilterGrayscale, Amount: 50},
	}
	if !reflect.DeepEqual(sub.Subject.Filters, want) {
		t.Fatalf("filters = %+v, want %+v", sub.Subject.Filters, want)
	}
	if css := sub.Subject.CSS; css != "brightness(120%) contrast(80%) blur(4px) grayscale(50%)" {
		t.Errorf("CSS = %q", css)
	}
}

func TestResolveWatermarkGlyph(t *testing.T) {
	logo := composition.NewImage("logo", "logo.png", image.NewNRGBA(image.Rect(0, 0, 8, 8)))
	tests := []struct {
		name string
		p    composition.WatermarkPartial
		want Glyph
	}{
		{"default", composition.WatermarkPartial{}, GlyphMonitor},
		{"link", composition.WatermarkPartial{Link: composition.Ptr("https://snappolish.com")}, GlyphQR},
		{"logo wins", composition.WatermarkPartial{Logo: logo, Link: composition.Ptr("https://x")}, GlyphLogo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := Resolve(composition.Default().Update(composition.Partial{Watermark: tt.p})).Layer(LayerWatermark)
			if !ok {
				t.Fatal("no watermark layer")
			}
			if w.Watermark.Glyph != tt.want || w.Watermark.Corner != composition.BottomRight {
				t.Errorf("watermark = %+v", w.Watermark)
			}
		})
	}
}

func TestTransformComposition(t *testing.T) {
	tr := NewTransform(150, 0, 0)
	p := tr.Project(Point{X: 10, Y: 0}, Point{})
	if !near(p.X, 15) || !near(p.Y, 0) {
		t.Errorf("scale: got %+v, want (15, 0)", p)
	}

	tr = NewTransform(100, 90, 0)
	p = tr.Project(Point{X: 10, Y: 0}, Point{})
	if !near(p.X, 0) || !near(p.Y, 10) {
		t.Errorf("rotateZ 90 should turn +x into +y (clockwise): got %+v", p)
	}

	tr = NewTransform(100, 0, 10)
	if tr.RotateY != 5 {
		t.Errorf("RotateY = %v, want half the tilt", tr.RotateY)
	}
	want := RotateXMat(10).Mul(RotateYMat(5))
	for i := range want {
		if !near(tr.Matrix[i], want[i]) {
			t.Fatalf("matrix = %v, want rotateX·rotateY %v", tr.Matrix, want)
		}
	}
	if tr.Affine() {
		t.Error("tilted transform reported as affine")
	}

	// Applying Y before X differs from applying X before Y.
	other := RotateYMat(5).Mul(RotateXMat(10))
	if reflect.DeepEqual(other, tr.Matrix) {
		t.Error("rotation order does not matter, expected it to")
	}
}

func indexOf(s *Stack, k LayerKind) int {
	for i, l := range s.Layers {
		if l.Kind == k {
			return i
		}
	}
	return -1
}

func TestResolveFrameQuad(t *testing.T) {
	s := Resolve(composition.Default())
	fr, ok := s.Layer(LayerFrame)
	if !ok {
		t.Fatal("no frame layer")
	}
	b := fr.Box
	want := [4]Point{{b.X, b.Y}, {b.X + b.W, b.Y}, {b.X + b.W, b.Y + b.H}, {b.X, b.Y + b.H}}
	for i, p := range fr.Frame.Quad {
		if !near(p.X, want[i].X) || !near(p.Y, want[i].Y) {
			t.Errorf("corner %d = %+v, want %+v", i, p, want[i])
		}
	}

	tilted := Resolve(composition.Default().Update(composition.Partial{TiltDeg: composition.Ptr(10.0)}))
	fr, _ = tilted.Layer(LayerFrame)
	if fr.Frame.Quad == want {
		t.Error("tilted quad equals the flat box")
	}
}

func TestTransformQuadIdentity(t *testing.T) {
	box := Rect{X: 10, Y: 20, W: 100, H: 50}
	q := NewTransform(100, 0, 0).Quad(box)
	want := [4]Point{{10, 20}, {110, 20}, {110, 70}, {10, 70}}
	for i := range q {
		if !near(q[i].X, want[i].X) || !near(q[i].Y, want[i].Y) {
			t.Errorf("corner %d = %+v, want %+v", i, q[i], want[i])
		}
	}
}
