// presets.go — Named one-click looks.
package composition

import "sort"

// PresetName identifies an entry in Presets.
type PresetName string

const (
	PresetMinimal PresetName = "minimal"
	PresetSocial  PresetName = "social"
	PresetPro     PresetName = "pro"
)

// Preset is the field subset a preset replaces. Subject, watermark, badge and
// filters are never part of a preset.
type Preset struct {
	Description  string
	Padding      float64
	ShadowLevel  int
	BorderRadius float64
	Background   Background
	Mockup       Mockup
	RotateDeg    float64
	TiltDeg      float64
	AspectRatio  AspectRatio
}

// Presets maps preset names to their field tables.
var Presets = map[PresetName]Preset{
	PresetMinimal: {
		Description:  "Flat light canvas, no chrome",
		Padding:      24,
		ShadowLevel:  1,
		BorderRadius: 8,
		Background:   Clean,
		Mockup:       MockupNone,
		AspectRatio:  AspectAuto,
	},
	PresetSocial: {
		Description:  "Portrait feed post with browser chrome",
		Padding:      64,
		ShadowLevel:  4,
		BorderRadius: 16,
		Background:   Sunset,
		Mockup:       MockupBrowser,
		AspectRatio:  AspectPortrait,
	},
	PresetPro: {
		Description:  "Dark widescreen with a slight 3D tilt",
		Padding:      80,
		ShadowLevel:  5,
		BorderRadius: 20,
		Background:   Dark,
		Mockup:       MockupBrowser,
		RotateDeg:    -4,
		TiltDeg:      10,
		AspectRatio:  AspectWide,
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []PresetName {
	names := make([]PresetName, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// ApplyPreset returns c with the preset's fields replaced. ok is false for an
// unknown name, in which case c is returned unchanged.
func (c Composition) ApplyPreset(name PresetName) (Composition, bool) {
	p, ok := Presets[name]
	if !ok {
		return c, false
	}
	return c.Update(Partial{
		Padding:      Ptr(p.Padding),
		ShadowLevel:  Ptr(p.ShadowLevel),
		BorderRadius: Ptr(p.BorderRadius),
		Background:   p.Background,
		Mockup:       Ptr(p.Mockup),
		RotateDeg:    Ptr(p.RotateDeg),
		TiltDeg:      Ptr(p.TiltDeg),
		AspectRatio:  Ptr(p.AspectRatio),
	}), true
}
