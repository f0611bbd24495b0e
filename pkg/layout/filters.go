// filters.go — Subject color-filter chain.
package layout

import (
	"fmt"
	"strings"

	"github.com/xob0t/SnapPolish/pkg/composition"
)

// FilterKind names one filter function.
type FilterKind string

const (
	FilterBrightness FilterKind = "brightness"
	FilterContrast   FilterKind = "contrast"
	FilterBlur       FilterKind = "blur"
	FilterGrayscale  FilterKind = "grayscale"
)

// Filter is one step of the chain. Amount is a percentage for brightness,
// contrast and grayscale and pixels for blur.
type Filter struct {
	Kind   FilterKind `json:"kind"`
	Amount float64    `json:"amount"`
}

// Identity reports whether the step leaves pixels untouched.
func (f Filter) Identity() bool {
	switch f.Kind {
	case FilterBrightness, FilterContrast:
		return f.Amount == 100
	default:
		return f.Amount == 0
	}
}

// CSS formats the step as a CSS filter function.
func (f Filter) CSS() string {
	if f.Kind == FilterBlur {
		return fmt.Sprintf("blur(%gpx)", f.Amount)
	}
	return fmt.Sprintf("%s(%g%%)", f.Kind, f.Amount)
}

// FilterChain is applied first to last.
type FilterChain []Filter

// NewFilterChain lists every filter in the fixed order brightness, contrast,
// blur, grayscale.
func NewFilterChain(f composition.Filters) FilterChain {
	return FilterChain{
		{Kind: FilterBrightness, Amount: f.Brightness},
		{Kind: FilterContrast, Amount: f.Contrast},
		{Kind: FilterBlur, Amount: f.BlurPx},
		{Kind: FilterGrayscale, Amount: f.GrayscalePercent},
	}
}

// CSS formats the chain as a CSS filter value.
func (c FilterChain) CSS() string {
	parts := make([]string, len(c))
	for i, f := range c {
		parts[i] = f.CSS()
	}
	return strings.Join(parts, " ")
}
