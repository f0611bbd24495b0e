package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xob0t/SnapPolish/pkg/composition"
	"github.com/xob0t/SnapPolish/pkg/export"
	"github.com/xob0t/SnapPolish/pkg/layout"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// plain is a 60×50 composition: a red 40×30 subject, 10px padding, no chrome,
// no shadow, no overlays, on solid blue.
func plain() composition.Composition {
	return composition.Default().Update(composition.Partial{
		Subject:     composition.NewImage("s", "s.png", solidImage(40, 30, red)),
		Padding:     composition.Ptr(10.0),
		ShadowLevel: composition.Ptr(0),
		Mockup:      composition.Ptr(composition.MockupNone),
		Background:  composition.Solid{Color: "#0000ff"},
		Watermark:   composition.WatermarkPartial{Enabled: composition.Ptr(false)},
	})
}

func newRasterizer(t *testing.T, opts Options) *Rasterizer {
	t.Helper()
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func render(t *testing.T, r *Rasterizer, c composition.Composition, mult float64) *image.RGBA {
	t.Helper()
	s := layout.Resolve(c)
	img, err := r.Render(context.Background(), s, export.CaptureOptions{
		Multiplier: mult, Width: s.Width, Height: s.Height, AllowCrossOrigin: true,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return img
}

func rgbaAt(img *image.RGBA, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func closeTo(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool { return abs(int(x)-int(y)) <= tol }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestRenderPlain(t *testing.T) {
	r := newRasterizer(t, Options{})
	img := render(t, r, plain(), 1)

	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 50 {
		t.Fatalf("size = %v, want 60x50", b)
	}
	if got := rgbaAt(img, 1, 1); !closeTo(got, color.NRGBA{B: 0xff, A: 0xff}, 0) {
		t.Errorf("canvas corner = %v, want blue", got)
	}
	if got := rgbaAt(img, 30, 25); !closeTo(got, red, 2) {
		t.Errorf("subject center = %v, want red", got)
	}
}

func TestRenderMultiplier(t *testing.T) {
	r := newRasterizer(t, Options{})
	img := render(t, r, plain(), 4)
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 200 {
		t.Fatalf("size = %v, want 240x200", b)
	}
	if got := rgbaAt(img, 120, 100); !closeTo(got, red, 2) {
		t.Errorf("subject center = %v, want red", got)
	}
}

func TestRenderTransparentBackground(t *testing.T) {
	r := newRasterizer(t, Options{})
	s := layout.Resolve(plain())
	img, err := r.Render(context.Background(), s, export.CaptureOptions{
		Multiplier: 1, Width: s.Width, Height: s.Height, TransparentBackground: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if a := rgbaAt(img, 1, 1).A; a != 0 {
		t.Errorf("canvas corner alpha = %d, want 0", a)
	}
}

func TestRenderTiltKeepsCenter(t *testing.T) {
	r := newRasterizer(t, Options{})
	c := plain().Update(composition.Partial{TiltDeg: composition.Ptr(20.0), RotateDeg: composition.Ptr(10.0)})
	img := render(t, r, c, 1)
	if got := rgbaAt(img, 30, 25); !closeTo(got, red, 4) {
		t.Errorf("tilted subject center = %v, want red", got)
	}
	if got := rgbaAt(img, 1, 1); !closeTo(got, color.NRGBA{B: 0xff, A: 0xff}, 0) {
		t.Errorf("canvas corner = %v, want blue", got)
	}
}

func TestRenderFilters(t *testing.T) {
	r := newRasterizer(t, Options{})
	gray := color.NRGBA{R: 100, G: 100, B: 100, A: 0xff}
	base := plain().Update(composition.Partial{
		Subject: composition.NewImage("g", "g.png", solidImage(40, 30, gray)),
	})

	tests := []struct {
		name string
		p    composition.Partial
		want color.NRGBA
	}{
		{"identity", composition.Partial{}, gray},
		{"brightness", composition.Partial{Brightness: composition.Ptr(150.0)}, color.NRGBA{150, 150, 150, 255}},
		{"contrast", composition.Partial{Contrast: composition.Ptr(50.0)}, color.NRGBA{114, 114, 114, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := render(t, r, base.Update(tt.p), 1)
			if got := rgbaAt(img, 30, 25); !closeTo(got, tt.want, 2) {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrayscaleFilter(t *testing.T) {
	img := solidImage(2, 2, red)
	out := grayscale(img, 1)
	got := out.NRGBAAt(0, 0)
	want := channel(0.2126 * 255)
	if got.R != want || got.G != want || got.B != want {
		t.Errorf("grayscale(red) = %v, want gray %d", got, want)
	}
	if half := grayscale(img, 0.5).NRGBAAt(0, 0); half.R <= want || half.G == 0 {
		t.Errorf("half grayscale = %v", half)
	}
}

func TestRenderTaintedRemote(t *testing.T) {
	r := newRasterizer(t, Options{})
	s := layout.Resolve(composition.Default())
	_, err := r.Capture(context.Background(), s, export.CaptureOptions{Multiplier: 1, Width: s.Width, Height: s.Height})
	if !errors.Is(err, ErrTainted) {
		t.Fatalf("err = %v, want ErrTainted", err)
	}
}

func TestRenderFetchesRemoteOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		png.Encode(w, solidImage(40, 30, red))
	}))
	defer srv.Close()

	r := newRasterizer(t, Options{Client: srv.Client()})
	c := plain().Update(composition.Partial{
		Subject: &composition.Image{ID: "remote", Name: "remote.png", URL: srv.URL + "/a.png", Width: 40, Height: 30},
	})
	for i := 0; i < 2; i++ {
		img := render(t, r, c, 1)
		if got := rgbaAt(img, 30, 25); !closeTo(got, red, 2) {
			t.Fatalf("remote subject center = %v, want red", got)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("fetched %d times, want 1", n)
	}
}

func TestRenderPixelBudget(t *testing.T) {
	r := newRasterizer(t, Options{MaxPixels: 100})
	s := layout.Resolve(plain())
	_, err := r.Render(context.Background(), s, export.CaptureOptions{Multiplier: 2, Width: s.Width, Height: s.Height})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestRenderInvalidMultiplier(t *testing.T) {
	r := newRasterizer(t, Options{})
	_, err := r.Render(context.Background(), layout.Resolve(plain()), export.CaptureOptions{Multiplier: 0})
	if !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("err = %v, want ErrInvalidOptions", err)
	}
}

func TestRenderAllLayers(t *testing.T) {
	r := newRasterizer(t, Options{})
	c := plain().Update(composition.Partial{
		Mockup:      composition.Ptr(composition.MockupBrowser),
		ShadowLevel: composition.Ptr(5),
		Background:  composition.Pattern{ID: composition.PatternDots},
		Badge: composition.BadgePartial{
			Text:        composition.Ptr("NEW"),
			RotationDeg: composition.Ptr(12.0),
		},
		Watermark: composition.WatermarkPartial{
			Enabled: composition.Ptr(true),
			Link:    composition.Ptr("https://snappolish.com"),
		},
	})
	s := layout.Resolve(c)
	data, err := r.Capture(context.Background(), s, export.CaptureOptions{Multiplier: 2, Width: s.Width, Height: s.Height})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != int(s.Width*2) || cfg.Height != int(s.Height*2) {
		t.Errorf("PNG = %dx%d, want %vx%v", cfg.Width, cfg.Height, s.Width*2, s.Height*2)
	}
}

func TestRenderPhoneGradient(t *testing.T) {
	r := newRasterizer(t, Options{})
	c := plain().Update(composition.Partial{
		Mockup:      composition.Ptr(composition.MockupPhone),
		AspectRatio: composition.Ptr(composition.AspectPortrait),
		Background:  composition.Gradient{Angle: 90, Stops: []composition.GradientStop{{Color: "#000000", Offset: 0}, {Color: "#ffffff", Offset: 1}}},
	})
	img := render(t, r, c, 1)
	b := img.Bounds()
	left, right := rgbaAt(img, 0, b.Dy()/2), rgbaAt(img, b.Dx()-1, b.Dy()/2)
	if left.R > 20 || right.R < 235 {
		t.Errorf("gradient edges = %v .. %v, want black .. white", left, right)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, false},
		{"#00000080", color.NRGBA{0, 0, 0, 128}, false},
		{"#abc", color.NRGBA{0xaa, 0xbb, 0xcc, 255}, false},
		{"ff8800", color.NRGBA{0xff, 0x88, 0, 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zzzzzz", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoundedRectClip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img = clipRoundedRect(img, 10)
	if a := img.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("corner alpha = %d, want 0", a)
	}
	if a := img.RGBAAt(20, 20).A; a != 0xff {
		t.Errorf("center alpha = %d, want 255", a)
	}
}

func TestRenderLongRotatedBadgeWithinBudget(t *testing.T) {
	r := newRasterizer(t, Options{MaxPixels: 20000})
	c := plain().Update(composition.Partial{Badge: composition.BadgePartial{
		Text:        composition.Ptr(strings.Repeat("W", 600)),
		RotationDeg: composition.Ptr(45.0),
	}})
	img := render(t, r, c, 2)
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 100 {
		t.Errorf("size = %v, want 120x100", b)
	}
}

func TestOverlaySpritesClampedToFrame(t *testing.T) {
	r := newRasterizer(t, Options{})
	long := strings.Repeat("wide text ", 80)
	c := plain().Update(composition.Partial{
		Subject:   composition.NewImage("s", "s.png", solidImage(300, 200, red)),
		Badge:     composition.BadgePartial{Text: composition.Ptr(long)},
		Watermark: composition.WatermarkPartial{Enabled: composition.Ptr(true), Text: composition.Ptr(long)},
	})
	s := layout.Resolve(c)
	frame, _ := s.Layer(layout.LayerFrame)
	badge, _ := s.Layer(layout.LayerBadge)
	mark, _ := s.Layer(layout.LayerWatermark)

	for _, k := range []float64{1, 2, 4} {
		tests := []struct {
			name   string
			maxW   float64
			sprite func(maxW float64) (*image.RGBA, error)
		}{
			{"badge", (frame.Box.W - 2*badge.Badge.Inset) * k, func(maxW float64) (*image.RGBA, error) {
				return r.badgeSprite(badge.Badge, maxW, k)
			}},
			{"watermark", (frame.Box.W - 2*mark.Watermark.Inset) * k, func(maxW float64) (*image.RGBA, error) {
				return r.watermarkSprite(context.Background(), mark.Watermark, maxW, k, false)
			}},
		}
		for _, tt := range tests {
			pill, err := tt.sprite(tt.maxW)
			if err != nil {
				t.Fatalf("%s at %gx: %v", tt.name, k, err)
			}
			if w := pill.Bounds().Dx(); w > int(math.Ceil(tt.maxW)) || w == 0 {
				t.Errorf("%s at %gx: width %d, want 1..%v", tt.name, k, w, tt.maxW)
			}
		}
	}
}

func TestRenderConcurrent(t *testing.T) {
	r := newRasterizer(t, Options{})
	c := plain().Update(composition.Partial{
		Mockup:    composition.Ptr(composition.MockupBrowser),
		Badge:     composition.BadgePartial{Text: composition.Ptr("NEW"), RotationDeg: composition.Ptr(-10.0)},
		Watermark: composition.WatermarkPartial{Enabled: composition.Ptr(true)},
	})
	s := layout.Resolve(c)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				if _, err := r.Render(context.Background(), s, export.CaptureOptions{Multiplier: 1}); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Render: %v", err)
	}
}

func TestFontFacesAreNotShared(t *testing.T) {
	fm, err := NewFontManager("", nil)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := fm.Face(14, true)
	b, _ := fm.Face(14, true)
	if a == b {
		t.Error("Face returned the same face twice")
	}
}

func TestTruncate(t *testing.T) {
	fm, err := NewFontManager("", nil)
	if err != nil {
		t.Fatal(err)
	}
	face, _ := fm.Face(16, false)
	full := measure(face, "snappolish.com").W

	tests := []struct {
		name     string
		s        string
		maxW     float64
		want     string
		ellipsis bool
	}{
		{"fits", "snappolish.com", full, "snappolish.com", false},
		{"zero width", "snappolish.com", 0, "", false},
		{"negative width", "snappolish.com", -5, "", false},
		{"too narrow for anything", "snappolish.com", 1, "", false},
		{"cut", "snappolish.com", full / 2, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(face, tt.s, tt.maxW)
			if tt.ellipsis {
				if !strings.HasSuffix(got, "…") || len([]rune(got)) < 2 {
					t.Errorf("truncate = %q, want a prefix with an ellipsis", got)
				}
			} else if got != tt.want {
				t.Errorf("truncate = %q, want %q", got, tt.want)
			}
			if w := measure(face, got).W; w > math.Max(tt.maxW, 0) {
				t.Errorf("width %v exceeds %v", w, tt.maxW)
			}
		})
	}
}
