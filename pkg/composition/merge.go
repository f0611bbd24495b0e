// merge.go — Merge partial updates onto a Composition.
package composition

import "math"

// Partial names the fields an update changes. Nil pointers (and a nil
// Background) leave the current value alone.
type Partial struct {
	Padding      *float64
	ShadowLevel  *int
	BorderRadius *float64
	Background   Background

	Mockup       *Mockup
	BrowserLabel *string
	DarkMode     *bool

	ScalePercent *float64
	RotateDeg    *float64
	TiltDeg      *float64

	Brightness       *float64
	Contrast         *float64
	BlurPx           *float64
	GrayscalePercent *float64

	AspectRatio *AspectRatio
	Watermark   WatermarkPartial
	Badge       BadgePartial
	Subject     *Image
}

// WatermarkPartial updates watermark fields. ClearLogo drops the logo and
// wins over Logo.
type WatermarkPartial struct {
	Enabled   *bool
	Text      *string
	Logo      *Image
	ClearLogo bool
	Link      *string
}

// BadgePartial updates badge fields.
type BadgePartial struct {
	Text            *string
	BackgroundColor *string
	TextColor       *string
	RotationDeg     *float64
	Position        *Corner
}

// Ptr returns a pointer to v, for building Partial literals.
func Ptr[T any](v T) *T { return &v }

// Clamp limits v to r. NaN maps to r.Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	return min(max(v, r.Min), r.Max)
}

// Update returns c with p merged in. Out-of-range numbers are clamped and
// unknown enum values are ignored; there is no rejection path.
func (c Composition) Update(p Partial) Composition {
	next := c

	if p.Padding != nil {
		next.Padding = PaddingRange.Clamp(*p.Padding)
	}
	if p.ShadowLevel != nil {
		next.ShadowLevel = int(ShadowRange.Clamp(float64(*p.ShadowLevel)))
	}
	if p.BorderRadius != nil {
		next.BorderRadius = RadiusRange.Clamp(*p.BorderRadius)
	}
	if p.Background != nil {
		next.setBackground(p.Background)
	}

	if p.Mockup != nil && validMockup(*p.Mockup) {
		next.Mockup = *p.Mockup
	}
	if p.BrowserLabel != nil {
		next.BrowserLabel = *p.BrowserLabel
	}
	if p.DarkMode != nil {
		next.DarkMode = *p.DarkMode
	}

	if p.ScalePercent != nil {
		next.ScalePercent = ScaleRange.Clamp(*p.ScalePercent)
	}
	if p.RotateDeg != nil {
		next.RotateDeg = RotateRange.Clamp(*p.RotateDeg)
	}
	if p.TiltDeg != nil {
		next.TiltDeg = TiltRange.Clamp(*p.TiltDeg)
	}

	if p.Brightness != nil {
		next.Filters.Brightness = BrightnessRange.Clamp(*p.Brightness)
	}
	if p.Contrast != nil {
		next.Filters.Contrast = ContrastRange.Clamp(*p.Contrast)
	}
	if p.BlurPx != nil {
		next.Filters.BlurPx = BlurRange.Clamp(*p.BlurPx)
	}
	if p.GrayscalePercent != nil {
		next.Filters.GrayscalePercent = GrayscaleRange.Clamp(*p.GrayscalePercent)
	}

	if p.AspectRatio != nil && validAspect(*p.AspectRatio) {
		next.AspectRatio = *p.AspectRatio
	}

	mergeWatermark(&next.Watermark, p.Watermark)
	mergeBadge(&next.Badge, p.Badge)

	if p.Subject != nil {
		next.Subject = p.Subject
	}
	return next
}

// setBackground keeps Background and CustomBackground consistent. An image
// fill without a reference falls back to the retained upload, and is ignored
// when there is none. Solids and gradients with a color that is not hex are
// ignored.
func (c *Composition) setBackground(bg Background) {
	switch v := bg.(type) {
	case ImageFill:
		if v.Ref == nil {
			if c.CustomBackground == nil {
				return
			}
			v.Ref = c.CustomBackground
		}
		c.CustomBackground = v.Ref
		c.Background = v
	case Solid:
		if !isHexColor(v.Color) {
			return
		}
		c.Background = v
	case Gradient:
		if len(v.Stops) == 0 {
			return
		}
		for _, s := range v.Stops {
			if !isHexColor(s.Color) {
				return
			}
		}
		v.Stops = append([]GradientStop(nil), v.Stops...)
		c.Background = v
	case Pattern:
		if v.ID != PatternDots && v.ID != PatternGrid {
			return
		}
		c.Background = v
	}
}

// mergeWatermark overlays watermark overrides.
func mergeWatermark(base *Watermark, over WatermarkPartial) {
	if over.Enabled != nil {
		base.Enabled = *over.Enabled
	}
	if over.Text != nil {
		base.Text = *over.Text
	}
	if over.Logo != nil {
		base.Logo = over.Logo
	}
	if over.ClearLogo {
		base.Logo = nil
	}
	if over.Link != nil {
		base.Link = *over.Link
	}
}

// mergeBadge overlays badge overrides. Colors that are not hex are ignored.
func mergeBadge(base *Badge, over BadgePartial) {
	if over.Text != nil {
		base.Text = *over.Text
	}
	if over.BackgroundColor != nil && isHexColor(*over.BackgroundColor) {
		base.BackgroundColor = *over.BackgroundColor
	}
	if over.TextColor != nil && isHexColor(*over.TextColor) {
		base.TextColor = *over.TextColor
	}
	if over.RotationDeg != nil {
		base.RotationDeg = BadgeRotateRange.Clamp(*over.RotationDeg)
	}
	if over.Position != nil && validCorner(*over.Position) {
		base.Position = *over.Position
	}
}

// ── Model ──

// Model owns the current Composition of a session.
type Model struct {
	current Composition
}

// NewModel starts from Default.
func NewModel() *Model {
	return &Model{current: Default()}
}

// Get returns the current snapshot.
func (m *Model) Get() Composition { return m.current }

// Update merges p and returns the new snapshot.
func (m *Model) Update(p Partial) Composition {
	m.current = m.current.Update(p)
	return m.current
}

// ApplyPreset replaces the preset-owned fields. An unknown name leaves the
// composition unchanged and reports false.
func (m *Model) ApplyPreset(name PresetName) (Composition, bool) {
	next, ok := m.current.ApplyPreset(name)
	m.current = next
	return next, ok
}
