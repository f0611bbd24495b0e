// fonts.go - Font loading with an embedded fallback.
// The browser label uses the regular face, the badge and watermark the bold one.
// A custom TTF/OTF replaces the regular face; Go Regular is used when it is
// missing or unreadable.
package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager parses fonts once. Parsed fonts are shared; faces are not,
// since an opentype face keeps a glyph buffer that Glyph mutates.
type FontManager struct {
	regular *opentype.Font
	bold    *opentype.Font
}

// NewFontManager loads customPath as the regular face, falling back to the
// embedded Go font with a warning.
func NewFontManager(customPath string, log Logger) (*FontManager, error) {
	if log == nil {
		log = nopLogger{}
	}
	var data []byte
	if customPath != "" {
		var err error
		data, err = os.ReadFile(customPath)
		if err != nil {
			log.Warnf("could not load font %q, using default: %v", customPath, err)
			data = nil
		}
	}

	var regular *opentype.Font
	if data != nil {
		f, err := opentype.Parse(data)
		if err != nil {
			log.Warnf("could not parse font %q, using default: %v", customPath, err)
		} else {
			regular = f
		}
	}
	if regular == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		regular = f
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	return &FontManager{regular: regular, bold: bold}, nil
}

// Face returns a new face at size device pixels (72 DPI, so points ==
// pixels). The face must stay on one goroutine.
func (fm *FontManager) Face(size float64, bold bool) (font.Face, error) {
	src := fm.regular
	if bold {
		src = fm.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}
