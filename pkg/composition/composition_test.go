package composition

import (
	"image"
	"math"
	"reflect"
	"testing"
)

func TestUpdateClampsBoundedFields(t *testing.T) {
	tests := []struct {
		name  string
		in    float64
		apply func(v float64) Partial
		get   func(c Composition) float64
		want  float64
	}{
		{"padding below", -5, func(v float64) Partial { return Partial{Padding: &v} }, func(c Composition) float64 { return c.Padding }, 0},
		{"padding above", 999, func(v float64) Partial { return Partial{Padding: &v} }, func(c Composition) float64 { return c.Padding }, 200},
		{"padding inside", 72, func(v float64) Partial { return Partial{Padding: &v} }, func(c Composition) float64 { return c.Padding }, 72},
		{"radius above", 500, func(v float64) Partial { return Partial{BorderRadius: &v} }, func(c Composition) float64 { return c.BorderRadius }, 64},
		{"scale below", 10, func(v float64) Partial { return Partial{ScalePercent: &v} }, func(c Composition) float64 { return c.ScalePercent }, 50},
		{"scale above", 400, func(v float64) Partial { return Partial{ScalePercent: &v} }, func(c Composition) float64 { return c.ScalePercent }, 150},
		{"rotate below", -90, func(v float64) Partial { return Partial{RotateDeg: &v} }, func(c Composition) float64 { return c.RotateDeg }, -20},
		{"tilt above", 45, func(v float64) Partial { return Partial{TiltDeg: &v} }, func(c Composition) float64 { return c.TiltDeg }, 20},
		{"brightness below", 0, func(v float64) Partial { return Partial{Brightness: &v} }, func(c Composition) float64 { return c.Filters.Brightness }, 50},
		{"contrast above", 300, func(v float64) Partial { return Partial{Contrast: &v} }, func(c Composition) float64 { return c.Filters.Contrast }, 150},
		{"blur below", -1, func(v float64) Partial { return Partial{BlurPx: &v} }, func(c Composition) float64 { return c.Filters.BlurPx }, 0},
		{"blur above", 11, func(v float64) Partial { return Partial{BlurPx: &v} }, func(c Composition) float64 { return c.Filters.BlurPx }, 10},
		{"grayscale above", 101, func(v float64) Partial { return Partial{GrayscalePercent: &v} }, func(c Composition) float64 { return c.Filters.GrayscalePercent }, 100},
		{"badge rotation below", -90, func(v float64) Partial { return Partial{Badge: BadgePartial{RotationDeg: &v}} }, func(c Composition) float64 { return c.Badge.RotationDeg }, -45},
		{"NaN padding", math.NaN(), func(v float64) Partial { return Partial{Padding: &v} }, func(c Composition) float64 { return c.Padding }, 0},
		{"infinite scale", math.Inf(1), func(v float64) Partial { return Partial{ScalePercent: &v} }, func(c Composition) float64 { return c.ScalePercent }, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.get(Default().Update(tt.apply(tt.in)))
			if got != tt.want {
				t.Errorf("stored %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateClampsShadowLevel(t *testing.T) {
	for in, want := range map[int]int{-3: 0, 0: 0, 4: 4, 9: 5} {
		c := Default().Update(Partial{ShadowLevel: Ptr(in)})
		if c.ShadowLevel != want {
			t.Errorf("ShadowLevel(%d) = %d, want %d", in, c.ShadowLevel, want)
		}
	}
}

func TestUpdateReturnsNewValue(t *testing.T) {
	base := Default()
	next := base.Update(Partial{Padding: Ptr(100.0), DarkMode: Ptr(false)})

	if base.Padding != 40 || !base.DarkMode {
		t.Fatalf("Update mutated the receiver: %+v", base)
	}
	if next.Padding != 100 || next.DarkMode {
		t.Errorf("Update did not apply: padding=%v darkMode=%v", next.Padding, next.DarkMode)
	}
}

func TestUpdateIgnoresUnknownEnums(t *testing.T) {
	c := Default().Update(Partial{
		Mockup:      Ptr(Mockup("tablet")),
		AspectRatio: Ptr(AspectRatio("3:2")),
		Badge:       BadgePartial{Position: Ptr(Corner("center"))},
	})
	if c.Mockup != MockupBrowser {
		t.Errorf("Mockup = %q, want browser", c.Mockup)
	}
	if c.AspectRatio != AspectAuto {
		t.Errorf("AspectRatio = %q, want auto", c.AspectRatio)
	}
	if c.Badge.Position != TopRight {
		t.Errorf("Badge.Position = %q, want top-right", c.Badge.Position)
	}
}

func TestUpdateIgnoresInvalidColors(t *testing.T) {
	tests := []struct {
		name string
		p    Partial
		get  func(Composition) any
		want any
	}{
		{"solid bad", Partial{Background: Solid{Color: "nope"}}, func(c Composition) any { return c.Background }, Background(Indigo)},
		{"solid good", Partial{Background: Solid{Color: "#112233"}}, func(c Composition) any { return c.Background }, Background(Solid{Color: "#112233"})},
		{"gradient bad stop", Partial{Background: Gradient{Angle: 90, Stops: []GradientStop{{Color: "#000000"}, {Color: "blue", Offset: 1}}}}, func(c Composition) any { return c.Background }, Background(Indigo)},
		{"gradient no stops", Partial{Background: Gradient{Angle: 90}}, func(c Composition) any { return c.Background }, Background(Indigo)},
		{"badge background bad", Partial{Badge: BadgePartial{BackgroundColor: Ptr("red")}}, func(c Composition) any { return c.Badge.BackgroundColor }, "#f43f5e"},
		{"badge background good", Partial{Badge: BadgePartial{BackgroundColor: Ptr("#00ff00")}}, func(c Composition) any { return c.Badge.BackgroundColor }, "#00ff00"},
		{"badge text bad", Partial{Badge: BadgePartial{TextColor: Ptr("#12")}}, func(c Composition) any { return c.Badge.TextColor }, "#ffffff"},
		{"badge text with alpha", Partial{Badge: BadgePartial{TextColor: Ptr("#000000cc")}}, func(c Composition) any { return c.Badge.TextColor }, "#000000cc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(Default().Update(tt.p)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBackgroundImageIsRetained(t *testing.T) {
	upload := NewImage("bg-1", "bg.png", image.NewNRGBA(image.Rect(0, 0, 4, 4)))

	c := Default().Update(Partial{Background: ImageFill{Ref: upload}})
	if c.Background.Type() != BackgroundImage || c.CustomBackground != upload {
		t.Fatalf("image background not applied: %#v", c.Background)
	}

	c = c.Update(Partial{Background: Pattern{ID: PatternGrid}})
	if c.Background.Type() != BackgroundPattern {
		t.Fatalf("Background = %v, want pattern", c.Background.Type())
	}
	if c.CustomBackground != upload {
		t.Fatal("switching away from image discarded the upload")
	}

	c = c.Update(Partial{Background: ImageFill{}})
	fill, ok := c.Background.(ImageFill)
	if !ok || fill.Ref != upload {
		t.Errorf("switching back did not reuse the upload: %#v", c.Background)
	}
}

func TestImageBackgroundWithoutUploadIsIgnored(t *testing.T) {
	c := Default().Update(Partial{Background: ImageFill{}})
	if c.Background.Type() != BackgroundGradient {
		t.Errorf("Background = %v, want the previous gradient", c.Background.Type())
	}
}

func TestBadgeFieldsStoredWhileHidden(t *testing.T) {
	c := Default().Update(Partial{Badge: BadgePartial{
		BackgroundColor: Ptr("#000000"),
		Position:        Ptr(BottomLeft),
	}})
	if c.Badge.Visible() {
		t.Fatal("badge without text must not be visible")
	}
	if c.Badge.BackgroundColor != "#000000" || c.Badge.Position != BottomLeft {
		t.Errorf("hidden badge fields not stored: %+v", c.Badge)
	}
}

func TestWatermarkLogo(t *testing.T) {
	logo := NewImage("logo-1", "logo.png", image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	c := Default().Update(Partial{Watermark: WatermarkPartial{Logo: logo}})
	if c.Watermark.Logo != logo {
		t.Fatal("logo not set")
	}
	if c.Subject == logo || c.CustomBackground == logo {
		t.Fatal("logo aliased another image field")
	}
	c = c.Update(Partial{Watermark: WatermarkPartial{ClearLogo: true}})
	if c.Watermark.Logo != nil {
		t.Error("ClearLogo did not remove the logo")
	}
}

func TestApplyPresetTouchesOnlyPresetFields(t *testing.T) {
	subject := NewImage("subj", "shot.png", image.NewNRGBA(image.Rect(0, 0, 10, 10)))
	logo := NewImage("logo", "logo.png", image.NewNRGBA(image.Rect(0, 0, 2, 2)))

	base := Default().Update(Partial{
		Subject:          subject,
		Brightness:       Ptr(120.0),
		Contrast:         Ptr(80.0),
		BlurPx:           Ptr(4.0),
		GrayscalePercent: Ptr(50.0),
		ScalePercent:     Ptr(110.0),
		Watermark:        WatermarkPartial{Text: Ptr("acme"), Logo: logo},
		Badge:            BadgePartial{Text: Ptr("NEW"), RotationDeg: Ptr(12.0)},
	})

	for _, name := range PresetNames() {
		t.Run(string(name), func(t *testing.T) {
			got, ok := base.ApplyPreset(name)
			if !ok {
				t.Fatalf("preset %q not found", name)
			}
			p := Presets[name]

			if got.Subject != base.Subject {
				t.Error("subject changed")
			}
			if !reflect.DeepEqual(got.Watermark, base.Watermark) {
				t.Errorf("watermark changed: %+v", got.Watermark)
			}
			if got.Badge != base.Badge {
				t.Errorf("badge changed: %+v", got.Badge)
			}
			if got.Filters != base.Filters {
				t.Errorf("filters changed: %+v", got.Filters)
			}
			if got.ScalePercent != base.ScalePercent || got.DarkMode != base.DarkMode || got.BrowserLabel != base.BrowserLabel {
				t.Error("non-preset field changed")
			}

			if got.Padding != p.Padding || got.ShadowLevel != p.ShadowLevel || got.BorderRadius != p.BorderRadius {
				t.Errorf("layout fields not applied: %+v", got)
			}
			if got.Mockup != p.Mockup || got.AspectRatio != p.AspectRatio {
				t.Errorf("mockup/aspect not applied: %s %s", got.Mockup, got.AspectRatio)
			}
			if got.RotateDeg != p.RotateDeg || got.TiltDeg != p.TiltDeg {
				t.Errorf("rotate/tilt not applied: %v %v", got.RotateDeg, got.TiltDeg)
			}
			if !reflect.DeepEqual(got.Background, p.Background) {
				t.Errorf("background = %#v, want %#v", got.Background, p.Background)
			}
		})
	}
}

func TestApplyUnknownPreset(t *testing.T) {
	m := NewModel()
	before := m.Get()
	got, ok := m.ApplyPreset("vintage")
	if ok {
		t.Fatal("unknown preset reported as applied")
	}
	if !reflect.DeepEqual(got, before) {
		t.Error("unknown preset changed the composition")
	}
}

func TestParseBackground(t *testing.T) {
	tests := []struct {
		name    string
		kind    BackgroundType
		value   string
		want    Background
		wantErr bool
	}{
		{name: "solid hex", kind: BackgroundSolid, value: "#112233", want: Solid{Color: "#112233"}},
		{name: "solid swatch", kind: BackgroundSolid, value: "clean", want: Clean},
		{name: "gradient swatch", kind: BackgroundGradient, value: "Sunset", want: Sunset},
		{
			name:  "gradient literal",
			kind:  BackgroundGradient,
			value: "90, #000000, #ffffff",
			want: Gradient{Angle: 90, Stops: []GradientStop{
				{Color: "#000000", Offset: 0},
				{Color: "#ffffff", Offset: 1},
			}},
		},
		{name: "pattern", kind: BackgroundPattern, value: "grid", want: Pattern{ID: PatternGrid}},
		{name: "bad solid", kind: BackgroundSolid, value: "red", wantErr: true},
		{name: "bad pattern", kind: BackgroundPattern, value: "stripes", wantErr: true},
		{name: "gradient missing stops", kind: BackgroundGradient, value: "90,#000000", wantErr: true},
		{name: "image needs ref", kind: BackgroundImage, value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBackground(tt.kind, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackground() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBackground() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
