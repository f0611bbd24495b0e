// artifact.go — The downloadable PNG.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultProduct prefixes artifact filenames.
const DefaultProduct = "snappolish"

// Artifact is one exported image. Width and Height are output pixels.
type Artifact struct {
	Filename   string
	MIME       string
	Data       []byte
	Width      int
	Height     int
	Multiplier float64
}

// Filename returns "<product>-design.png" at the default multiplier and
// "<product>-design@<N>x.png" otherwise.
func Filename(product string, multiplier float64) string {
	if product == "" {
		product = DefaultProduct
	}
	if multiplier == DefaultMultiplier {
		return product + "-design.png"
	}
	return fmt.Sprintf("%s-design@%gx.png", product, multiplier)
}

// WriteTo writes the PNG bytes to w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.Data)
	return int64(n), err
}

// Save writes the artifact into dir under its filename and returns the path.
func (a *Artifact) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	if err := os.WriteFile(path, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write PNG: %w", err)
	}
	return path, nil
}
