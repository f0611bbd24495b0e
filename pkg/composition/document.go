// document.go — Settings documents: partial compositions in YAML or JSON.
package composition

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the wire and file form of a Partial. Every field is optional;
// absent fields keep their current value. Images are referenced by a string
// the caller resolves (an asset ID in the editor, a file path in the CLI).
type Document struct {
	Padding      *float64       `json:"padding,omitempty" yaml:"padding,omitempty"`
	Shadow       *int           `json:"shadow,omitempty" yaml:"shadow,omitempty"`
	BorderRadius *float64       `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
	Background   *BackgroundDoc `json:"background,omitempty" yaml:"background,omitempty"`
	Mockup       *string        `json:"mockup,omitempty" yaml:"mockup,omitempty"`
	BrowserLabel *string        `json:"browserLabel,omitempty" yaml:"browserLabel,omitempty"`
	DarkMode     *bool          `json:"darkMode,omitempty" yaml:"darkMode,omitempty"`
	Scale        *float64       `json:"scale,omitempty" yaml:"scale,omitempty"`
	Rotate       *float64       `json:"rotate,omitempty" yaml:"rotate,omitempty"`
	Tilt         *float64       `json:"tilt,omitempty" yaml:"tilt,omitempty"`
	Filters      *FiltersDoc    `json:"filters,omitempty" yaml:"filters,omitempty"`
	AspectRatio  *string        `json:"aspectRatio,omitempty" yaml:"aspectRatio,omitempty"`
	Watermark    *WatermarkDoc  `json:"watermark,omitempty" yaml:"watermark,omitempty"`
	Badge        *BadgeDoc      `json:"badge,omitempty" yaml:"badge,omitempty"`
	Subject      *string        `json:"subject,omitempty" yaml:"subject,omitempty"`
}

// BackgroundDoc selects a background. Value is interpreted by
// ParseBackground; Image is an image reference for type "image" and may be
// empty to switch back to the retained upload.
type BackgroundDoc struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// FiltersDoc carries the color-filter fields.
type FiltersDoc struct {
	Brightness *float64 `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty" yaml:"contrast,omitempty"`
	Blur       *float64 `json:"blur,omitempty" yaml:"blur,omitempty"`
	Grayscale  *float64 `json:"grayscale,omitempty" yaml:"grayscale,omitempty"`
}

// WatermarkDoc carries watermark fields. An empty Logo removes the logo.
type WatermarkDoc struct {
	Enabled *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Text    *string `json:"text,omitempty" yaml:"text,omitempty"`
	Logo    *string `json:"logo,omitempty" yaml:"logo,omitempty"`
	Link    *string `json:"link,omitempty" yaml:"link,omitempty"`
}

// BadgeDoc carries badge fields.
type BadgeDoc struct {
	Text            *string  `json:"text,omitempty" yaml:"text,omitempty"`
	BackgroundColor *string  `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	TextColor       *string  `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Position        *string  `json:"position,omitempty" yaml:"position,omitempty"`
}

// ImageLookup resolves an image reference from a Document.
type ImageLookup func(ref string) (*Image, error)

// ParseDocument decodes YAML or JSON (JSON is valid YAML).
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads a settings file. A malformed file yields an empty
// document and a warning, so rendering continues with current values.
func LoadDocument(path string) (*Document, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read settings: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return &Document{}, []string{fmt.Sprintf("malformed %s: %v — using current values", path, err)}, nil
	}
	return doc, nil, nil
}

// Partial converts d into a Partial. Values that cannot be applied (unknown
// enums, bad colors, unresolvable images) are dropped with a warning; the
// affected field keeps its current value.
func (d *Document) Partial(lookup ImageLookup) (Partial, []string) {
	var p Partial
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}
	image := func(field, ref string) *Image {
		if lookup == nil {
			warn("%s: no image source for %q — ignored", field, ref)
			return nil
		}
		img, err := lookup(ref)
		if err != nil {
			warn("%s: %v — keeping previous image", field, err)
			return nil
		}
		return img
	}

	p.Padding = d.Padding
	p.ShadowLevel = d.Shadow
	p.BorderRadius = d.BorderRadius
	p.BrowserLabel = d.BrowserLabel
	p.DarkMode = d.DarkMode
	p.ScalePercent = d.Scale
	p.RotateDeg = d.Rotate
	p.TiltDeg = d.Tilt

	if bg := d.Background; bg != nil {
		kind := BackgroundType(strings.ToLower(bg.Type))
		if kind == BackgroundImage {
			fill := ImageFill{}
			if bg.Image != "" {
				fill.Ref = image("background", bg.Image)
			}
			if bg.Image == "" || fill.Ref != nil {
				p.Background = fill
			}
		} else if parsed, err := ParseBackground(kind, bg.Value); err != nil {
			warn("background: %v — ignored", err)
		} else {
			p.Background = parsed
		}
	}

	if d.Mockup != nil {
		m := Mockup(strings.ToLower(*d.Mockup))
		if validMockup(m) {
			p.Mockup = &m
		} else {
			warn("unknown mockup %q — ignored", *d.Mockup)
		}
	}

	if f := d.Filters; f != nil {
		p.Brightness = f.Brightness
		p.Contrast = f.Contrast
		p.BlurPx = f.Blur
		p.GrayscalePercent = f.Grayscale
	}

	if d.AspectRatio != nil {
		a := AspectRatio(strings.ToLower(*d.AspectRatio))
		if validAspect(a) {
			p.AspectRatio = &a
		} else {
			warn("unknown aspect ratio %q — ignored", *d.AspectRatio)
		}
	}

	if w := d.Watermark; w != nil {
		p.Watermark.Enabled = w.Enabled
		p.Watermark.Text = w.Text
		p.Watermark.Link = w.Link
		if w.Logo != nil {
			if *w.Logo == "" {
				p.Watermark.ClearLogo = true
			} else {
				p.Watermark.Logo = image("watermark logo", *w.Logo)
			}
		}
	}

	if b := d.Badge; b != nil {
		p.Badge.Text = b.Text
		p.Badge.RotationDeg = b.Rotation
		for _, c := range []struct {
			name string
			in   *string
			out  **string
		}{
			{"badge background", b.BackgroundColor, &p.Badge.BackgroundColor},
			{"badge text color", b.TextColor, &p.Badge.TextColor},
		} {
			if c.in == nil {
				continue
			}
			if !isHexColor(*c.in) {
				warn("%s %q: expected #rrggbb — ignored", c.name, *c.in)
				continue
			}
			*c.out = c.in
		}
		if b.Position != nil {
			pos := Corner(strings.ToLower(*b.Position))
			if validCorner(pos) {
				p.Badge.Position = &pos
			} else {
				warn("unknown badge position %q — ignored", *b.Position)
			}
		}
	}

	if d.Subject != nil && *d.Subject != "" {
		p.Subject = image("subject", *d.Subject)
	}

	return p, warnings
}

// Snapshot renders c as a fully populated Document. Images are written as
// their IDs.
func Snapshot(c Composition) Document {
	d := Document{
		Padding:      Ptr(c.Padding),
		Shadow:       Ptr(c.ShadowLevel),
		BorderRadius: Ptr(c.BorderRadius),
		Background:   backgroundDoc(c.Background),
		Mockup:       Ptr(string(c.Mockup)),
		BrowserLabel: Ptr(c.BrowserLabel),
		DarkMode:     Ptr(c.DarkMode),
		Scale:        Ptr(c.ScalePercent),
		Rotate:       Ptr(c.RotateDeg),
		Tilt:         Ptr(c.TiltDeg),
		Filters: &FiltersDoc{
			Brightness: Ptr(c.Filters.Brightness),
			Contrast:   Ptr(c.Filters.Contrast),
			Blur:       Ptr(c.Filters.BlurPx),
			Grayscale:  Ptr(c.Filters.GrayscalePercent),
		},
		AspectRatio: Ptr(string(c.AspectRatio)),
		Watermark: &WatermarkDoc{
			Enabled: Ptr(c.Watermark.Enabled),
			Text:    Ptr(c.Watermark.Text),
			Link:    Ptr(c.Watermark.Link),
		},
		Badge: &BadgeDoc{
			Text:            Ptr(c.Badge.Text),
			BackgroundColor: Ptr(c.Badge.BackgroundColor),
			TextColor:       Ptr(c.Badge.TextColor),
			Rotation:        Ptr(c.Badge.RotationDeg),
			Position:        Ptr(string(c.Badge.Position)),
		},
	}
	if c.Watermark.Logo != nil {
		d.Watermark.Logo = Ptr(c.Watermark.Logo.ID)
	}
	if c.Subject != nil {
		d.Subject = Ptr(c.Subject.ID)
	}
	return d
}

func backgroundDoc(bg Background) *BackgroundDoc {
	switch v := bg.(type) {
	case Solid:
		return &BackgroundDoc{Type: string(BackgroundSolid), Value: v.Color}
	case Gradient:
		if v.Name != "" {
			return &BackgroundDoc{Type: string(BackgroundGradient), Value: v.Name}
		}
		parts := []string{strconv.FormatFloat(v.Angle, 'f', -1, 64)}
		for _, s := range v.Stops {
			parts = append(parts, s.Color)
		}
		return &BackgroundDoc{Type: string(BackgroundGradient), Value: strings.Join(parts, ",")}
	case Pattern:
		return &BackgroundDoc{Type: string(BackgroundPattern), Value: string(v.ID)}
	case ImageFill:
		return &BackgroundDoc{Type: string(BackgroundImage), Image: v.Ref.ID}
	}
	return nil
}

// ExampleSettings returns a sample settings file for `snappolish init`.
func ExampleSettings() string {
	return `# SnapPolish settings. Every key is optional; omitted keys keep defaults.
padding: 48
shadow: 4
borderRadius: 16
background:
  type: gradient
  value: ocean          # swatch name, or "135,#3b82f6,#10b981"
mockup: browser         # browser | phone | none
browserLabel: example.com
darkMode: true
scale: 100
rotate: 0
tilt: 0
filters:
  brightness: 100
  contrast: 100
  blur: 0
  grayscale: 0
aspectRatio: auto       # auto | 1:1 | 16:9 | 4:5 | 9:16
watermark:
  enabled: true
  text: SnapPolish
badge:
  text: NEW
  backgroundColor: "#f43f5e"
  textColor: "#ffffff"
  rotation: 0
  position: top-right
`
}
