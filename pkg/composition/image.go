// image.go — Immutable image references held by a Composition.
package composition

import "image"

// PlaceholderURL is the remote image shown before the user loads a subject.
const PlaceholderURL = "https://images.unsplash.com/photo-1460925895917-afdab827c52f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&q=80"

// Image is a decoded, self-contained image reference. Once created it is never
// mutated; compositions share the pointer.
//
// A remote image carries only a URL and its declared size. Pixels are fetched
// by the rasterizer at capture time.
type Image struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	URL    string      `json:"url,omitempty"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Pixels image.Image `json:"-"`
}

// Remote reports whether the pixels must be fetched from URL.
func (i *Image) Remote() bool {
	return i != nil && i.Pixels == nil && i.URL != ""
}

// NewImage wraps decoded pixels in a reference.
func NewImage(id, name string, px image.Image) *Image {
	b := px.Bounds()
	return &Image{ID: id, Name: name, Width: b.Dx(), Height: b.Dy(), Pixels: px}
}

// The unsplash placeholder is served at w=800 with a 3:2 crop.
var placeholder = &Image{
	ID:     "placeholder",
	Name:   "placeholder.jpg",
	URL:    PlaceholderURL,
	Width:  800,
	Height: 533,
}

// Placeholder returns the shared default subject reference.
func Placeholder() *Image { return placeholder }
