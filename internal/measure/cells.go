package measure

import (
	"context"

	"github.com/mattn/go-runewidth"
)

// CellMeasurer measures monospace contexts such as terminals: the number of
// cells a grapheme occupies times the pixel width of one cell.
type CellMeasurer struct {
	CellWidth     float64
	EastAsianWide bool
}

// Measure implements Measurer.
func (m CellMeasurer) Measure(ctx context.Context, ch string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = m.EastAsianWide
	return float64(cond.StringWidth(ch)) * m.CellWidth, nil
}
