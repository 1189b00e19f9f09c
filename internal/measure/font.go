package measure

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Default font rendering context.
const (
	DefaultFontSize = 16.0
	DefaultDPI      = 96.0
)

// FontMeasurer measures advances with a TrueType face.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

// NewFontMeasurer parses TrueType data and builds a face at size points and dpi.
func NewFontMeasurer(ttf []byte, size, dpi float64) (*FontMeasurer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size must be > 0")
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("dpi must be > 0")
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	return &FontMeasurer{face: face}, nil
}

// LoadFontMeasurer reads a font file; an empty path selects the bundled Go Regular font.
func LoadFontMeasurer(path string, size, dpi float64) (*FontMeasurer, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
	}
	return NewFontMeasurer(data, size, dpi)
}

// Measure implements Measurer.
func (m *FontMeasurer) Measure(ctx context.Context, ch string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	// Faces cache glyphs and are not safe for concurrent use.
	m.mu.Lock()
	adv := font.MeasureString(m.face, ch)
	m.mu.Unlock()
	return float64(adv) / 64, nil
}

// Close releases the face.
func (m *FontMeasurer) Close() error {
	return m.face.Close()
}
