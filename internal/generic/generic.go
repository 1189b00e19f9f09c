// Package generic provides the built-in language-agnostic character frequency table.
package generic

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed generic.toml
var defaultTable string

// Entry is one character and its frequency in percent.
type Entry struct {
	Char      string
	Frequency float64
}

type tableFile struct {
	Frequencies map[string]float64 `toml:"frequencies"`
}

// Load returns the embedded frequency table in document order.
func Load() ([]Entry, error) {
	return Parse(defaultTable)
}

// Parse decodes a frequency table from TOML. Entries keep document order.
func Parse(data string) ([]Entry, error) {
	var tf tableFile
	md, err := toml.NewDecoder(strings.NewReader(data)).Decode(&tf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frequency table: %w", err)
	}
	entries := make([]Entry, 0, len(tf.Frequencies))
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "frequencies" {
			continue
		}
		ch := key[1]
		freq := tf.Frequencies[ch]
		if freq < 0 {
			return nil, fmt.Errorf("negative frequency for %q", ch)
		}
		entries = append(entries, Entry{Char: ch, Frequency: freq})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("frequency table is empty")
	}
	return entries, nil
}
