package measure

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
)

// TableMeasurer serves widths measured elsewhere, for example in a browser.
type TableMeasurer struct {
	widths   map[string]float64
	fallback *float64
}

type widthsFile struct {
	Default *float64           `toml:"default"`
	Widths  map[string]float64 `toml:"widths"`
}

// NewTableMeasurer wraps a width map. fallback is used for unknown characters when non-nil.
func NewTableMeasurer(widths map[string]float64, fallback *float64) *TableMeasurer {
	cp := make(map[string]float64, len(widths))
	for k, v := range widths {
		cp[k] = v
	}
	return &TableMeasurer{widths: cp, fallback: fallback}
}

// LoadTableMeasurer reads widths from a TOML file:
//
//	default = 8.0
//	[widths]
//	"a" = 7.5
func LoadTableMeasurer(path string) (*TableMeasurer, error) {
	var wf widthsFile
	if _, err := toml.DecodeFile(path, &wf); err != nil {
		return nil, fmt.Errorf("failed to decode widths: %w", err)
	}
	for ch, w := range wf.Widths {
		if w < 0 {
			return nil, fmt.Errorf("negative width for %q", ch)
		}
	}
	return NewTableMeasurer(wf.Widths, wf.Default), nil
}

// Measure implements Measurer.
func (m *TableMeasurer) Measure(_ context.Context, ch string) (float64, error) {
	if w, ok := m.widths[ch]; ok {
		return w, nil
	}
	if m.fallback != nil {
		return *m.fallback, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownChar, ch)
}
