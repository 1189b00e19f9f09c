// Package model defines shared data structures.
package model

// FilterConfig defines which characters are counted and whether the final
// capacity is reduced by ten percent. Values are immutable; use the With
// methods to derive a modified copy.
type FilterConfig struct {
	IgnoreCapitals     bool
	IgnoreNumbers      bool
	IgnoreSymbols      bool
	IgnoreSpaces       bool
	ReduceByTenPercent bool
}

// DefaultFilterConfig returns the filter settings used when nothing is configured.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{ReduceByTenPercent: true}
}

// WithIgnoreCapitals returns a copy with case folding toggled.
func (f FilterConfig) WithIgnoreCapitals(v bool) FilterConfig {
	f.IgnoreCapitals = v
	return f
}

// WithIgnoreNumbers returns a copy with digit exclusion toggled.
func (f FilterConfig) WithIgnoreNumbers(v bool) FilterConfig {
	f.IgnoreNumbers = v
	return f
}

// WithIgnoreSymbols returns a copy with symbol exclusion toggled.
func (f FilterConfig) WithIgnoreSymbols(v bool) FilterConfig {
	f.IgnoreSymbols = v
	return f
}

// WithIgnoreSpaces returns a copy with whitespace exclusion toggled.
func (f FilterConfig) WithIgnoreSpaces(v bool) FilterConfig {
	f.IgnoreSpaces = v
	return f
}

// WithReduceByTenPercent returns a copy with the ten percent reduction toggled.
func (f FilterConfig) WithReduceByTenPercent(v bool) FilterConfig {
	f.ReduceByTenPercent = v
	return f
}

// WidthStatus tracks whether a character width has been measured.
type WidthStatus int

const (
	WidthPending WidthStatus = iota
	WidthReady
)

// CharStat stores the statistics of one character (grapheme cluster).
type CharStat struct {
	Char      string
	Count     int
	Counted   bool
	Frequency float64
	Width     float64
	Status    WidthStatus
}

// HasWidth reports whether the width has been measured.
func (c CharStat) HasWidth() bool {
	return c.Status == WidthReady
}

// WithWidth returns a copy carrying a measured width.
func (c CharStat) WithWidth(w float64) CharStat {
	c.Width = w
	c.Status = WidthReady
	return c
}

// LanguageEntry is a localization target and its derived statistics.
type LanguageEntry struct {
	Code          string
	CharacterData []CharStat
	AverageLength float64
	ExpansionRate float64
	Processed     bool
}

// DefaultGenericExpansionRate is the multiplier used when no per-language data is available.
const DefaultGenericExpansionRate = 1.40

// LocalizationSettings configures the expansion-rate adjustment.
type LocalizationSettings struct {
	Enabled              bool
	UseGenericRates      bool
	GenericExpansionRate float64
	Languages            []LanguageEntry
}

// DefaultLocalizationSettings returns disabled localization with the default generic rate.
func DefaultLocalizationSettings() LocalizationSettings {
	return LocalizationSettings{GenericExpansionRate: DefaultGenericExpansionRate}
}

// WithEnabled returns a copy with localization toggled.
func (l LocalizationSettings) WithEnabled(v bool) LocalizationSettings {
	l.Enabled = v
	return l
}

// WithUseGenericRates returns a copy with the generic-rate flag set.
func (l LocalizationSettings) WithUseGenericRates(v bool) LocalizationSettings {
	l.UseGenericRates = v
	return l
}

// WithGenericExpansionRate returns a copy with a new generic rate.
func (l LocalizationSettings) WithGenericExpansionRate(rate float64) LocalizationSettings {
	l.GenericExpansionRate = rate
	return l
}

// WithLanguage returns a copy where the entry replaces the language with the
// same code, or is appended when the code is new.
func (l LocalizationSettings) WithLanguage(entry LanguageEntry) LocalizationSettings {
	langs := make([]LanguageEntry, 0, len(l.Languages)+1)
	replaced := false
	for _, existing := range l.Languages {
		if existing.Code == entry.Code {
			langs = append(langs, entry)
			replaced = true
			continue
		}
		langs = append(langs, existing)
	}
	if !replaced {
		langs = append(langs, entry)
	}
	l.Languages = langs
	return l
}

// WithoutLanguage returns a copy with the language removed. Unknown codes are ignored.
func (l LocalizationSettings) WithoutLanguage(code string) LocalizationSettings {
	langs := make([]LanguageEntry, 0, len(l.Languages))
	for _, existing := range l.Languages {
		if existing.Code != code {
			langs = append(langs, existing)
		}
	}
	l.Languages = langs
	return l
}

// Language returns the entry for code.
func (l LocalizationSettings) Language(code string) (LanguageEntry, bool) {
	for _, entry := range l.Languages {
		if entry.Code == code {
			return entry, true
		}
	}
	return LanguageEntry{}, false
}

// DatasetMode selects between a custom corpus and the generic frequency table.
type DatasetMode int

const (
	DatasetCustom DatasetMode = iota
	DatasetGeneric
)

func (m DatasetMode) String() string {
	if m == DatasetGeneric {
		return "generic"
	}
	return "custom"
}

// genericRatesForMode forces LocalizationSettings.UseGenericRates on every
// dataset mode switch.
var genericRatesForMode = map[DatasetMode]bool{
	DatasetCustom:  false,
	DatasetGeneric: true,
}

// ApplyDatasetMode returns localization settings with the flag the mode forces.
func ApplyDatasetMode(mode DatasetMode, l LocalizationSettings) LocalizationSettings {
	return l.WithUseGenericRates(genericRatesForMode[mode])
}

// CapacityResult holds the derived character limits.
type CapacityResult struct {
	MaxCharLength         int
	ReducedMaxCharLength  *int
	AdjustedMaxCharLength *int

	TotalFrequencyWidth float64
	ExpansionRate       float64
}

// Effective returns the most constrained limit available.
func (r CapacityResult) Effective() int {
	if r.AdjustedMaxCharLength != nil {
		return *r.AdjustedMaxCharLength
	}
	if r.ReducedMaxCharLength != nil {
		return *r.ReducedMaxCharLength
	}
	return r.MaxCharLength
}
