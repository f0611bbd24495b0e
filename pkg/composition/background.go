// background.go — Canvas paint as a closed set of variants.
package composition

import (
	"fmt"
	"strconv"
	"strings"
)

// BackgroundType names the variant of a Background.
type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundPattern  BackgroundType = "pattern"
	BackgroundImage    BackgroundType = "image"
)

// Background is one of Solid, Gradient, Pattern or ImageFill.
// The unexported method keeps the set closed.
type Background interface {
	Type() BackgroundType
	isBackground()
}

// Solid fills the canvas with a single "#rrggbb" color.
type Solid struct {
	Color string `json:"color"`
}

// GradientStop is a color at a relative offset 0..1.
type GradientStop struct {
	Color  string  `json:"color"`
	Offset float64 `json:"offset"`
}

// Gradient is a linear gradient. Angle follows CSS: 0 points up, 90 right.
type Gradient struct {
	Name  string         `json:"name,omitempty"`
	Angle float64        `json:"angle"`
	Stops []GradientStop `json:"stops"`
}

// PatternID selects a repeating tile.
type PatternID string

const (
	PatternDots PatternID = "dots"
	PatternGrid PatternID = "grid"
)

// Pattern repeats a tile over a fixed light base.
type Pattern struct {
	ID PatternID `json:"id"`
}

// ImageFill covers the canvas with an uploaded image. Ref is never nil in a
// Composition.
type ImageFill struct {
	Ref *Image `json:"ref"`
}

func (Solid) Type() BackgroundType     { return BackgroundSolid }
func (Gradient) Type() BackgroundType  { return BackgroundGradient }
func (Pattern) Type() BackgroundType   { return BackgroundPattern }
func (ImageFill) Type() BackgroundType { return BackgroundImage }

func (Solid) isBackground()     {}
func (Gradient) isBackground()  {}
func (Pattern) isBackground()   {}
func (ImageFill) isBackground() {}

// ── Swatches ──

func linear(name, from, to string) Gradient {
	return Gradient{
		Name:  name,
		Angle: 135,
		Stops: []GradientStop{{Color: from, Offset: 0}, {Color: to, Offset: 1}},
	}
}

var (
	Indigo = linear("indigo", "#6366f1", "#a855f7")
	Sunset = linear("sunset", "#f43f5e", "#f59e0b")
	Ocean  = linear("ocean", "#3b82f6", "#10b981")
	Dark   = linear("dark", "#1e293b", "#0f172a")
	Mesh   = Gradient{
		Name:  "mesh",
		Angle: 160,
		Stops: []GradientStop{
			{Color: "#ffb27a", Offset: 0},
			{Color: "#ffdde1", Offset: 0.5},
			{Color: "#1fd1f9", Offset: 1},
		},
	}
	Clean = Solid{Color: "#e2e8f0"}
)

// Swatches maps swatch names to their backgrounds.
var Swatches = map[string]Background{
	"indigo": Indigo,
	"sunset": Sunset,
	"ocean":  Ocean,
	"dark":   Dark,
	"mesh":   Mesh,
	"clean":  Clean,
}

// ParseBackground builds a non-image background from a type and a value.
//
//	solid     "#rrggbb" or a swatch name
//	gradient  swatch name or "<angle>,#from,#to[,#more...]"
//	pattern   "dots" or "grid"
//
// Image backgrounds need a reference and are built as ImageFill directly.
func ParseBackground(kind BackgroundType, value string) (Background, error) {
	value = strings.TrimSpace(value)
	if sw, ok := Swatches[strings.ToLower(value)]; ok && sw.Type() == kind {
		return sw, nil
	}

	switch kind {
	case BackgroundSolid:
		if !isHexColor(value) {
			return nil, fmt.Errorf("solid background %q: expected #rrggbb", value)
		}
		return Solid{Color: value}, nil
	case BackgroundGradient:
		return parseGradient(value)
	case BackgroundPattern:
		switch id := PatternID(strings.ToLower(value)); id {
		case PatternDots, PatternGrid:
			return Pattern{ID: id}, nil
		}
		return nil, fmt.Errorf("unknown pattern %q", value)
	case BackgroundImage:
		return nil, fmt.Errorf("image background needs an image reference")
	default:
		return nil, fmt.Errorf("unknown background type %q", kind)
	}
}

func parseGradient(value string) (Gradient, error) {
	parts := strings.Split(value, ",")
	if len(parts) < 3 {
		return Gradient{}, fmt.Errorf("gradient %q: expected <angle>,#from,#to", value)
	}
	angle, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Gradient{}, fmt.Errorf("gradient angle %q: %w", parts[0], err)
	}

	colors := parts[1:]
	g := Gradient{Angle: angle, Stops: make([]GradientStop, 0, len(colors))}
	for i, c := range colors {
		c = strings.TrimSpace(c)
		if !isHexColor(c) {
			return Gradient{}, fmt.Errorf("gradient stop %q: expected #rrggbb", c)
		}
		g.Stops = append(g.Stops, GradientStop{
			Color:  c,
			Offset: float64(i) / float64(len(colors)-1),
		})
	}
	return g, nil
}

func isHexColor(s string) bool {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 || len(h) == len(s) {
		return false
	}
	_, err := strconv.ParseUint(h, 16, 32)
	return err == nil
}
