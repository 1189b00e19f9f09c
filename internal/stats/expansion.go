package stats

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/model"
)

// AverageLength returns the mean length in grapheme clusters of the resolved
// entries. Every entry weighs the same.
func AverageLength(r corpus.Resolved) (float64, error) {
	if len(r) == 0 {
		return 0, ErrEmptyCorpus
	}
	total := 0
	for _, item := range r {
		total += uniseg.GraphemeClusterCount(item.Text)
	}
	return float64(total) / float64(len(r)), nil
}

// ExpansionRate compares a translated average length with the base one.
func ExpansionRate(baseAverage, langAverage float64) (float64, error) {
	if baseAverage <= 0 {
		return 0, ErrBaseNotProcessed
	}
	return langAverage / baseAverage, nil
}

// EffectiveExpansionRate returns the rate used for capacity adjustment: the
// generic rate, or the largest per-language rate but never below 1.
func EffectiveExpansionRate(l model.LocalizationSettings) float64 {
	if l.UseGenericRates {
		return l.GenericExpansionRate
	}
	rate := 1.0
	for _, lang := range l.Languages {
		if lang.ExpansionRate > rate {
			rate = lang.ExpansionRate
		}
	}
	return rate
}

// LanguageStats analyses a translated corpus for a localization target.
func LanguageStats(code string, lang corpus.Resolved, baseAverage float64, cfg model.FilterConfig) (model.LanguageEntry, error) {
	entry := model.LanguageEntry{Code: code}
	data, err := Analyze(corpus.Normalize(lang, cfg))
	if err != nil {
		return entry, fmt.Errorf("language %s: %w", code, err)
	}
	avg, err := AverageLength(lang)
	if err != nil {
		return entry, fmt.Errorf("language %s: %w", code, err)
	}
	rate, err := ExpansionRate(baseAverage, avg)
	if err != nil {
		return entry, fmt.Errorf("language %s: %w", code, err)
	}
	Sort(data, SortChar, SortAsc)
	entry.CharacterData = data
	entry.AverageLength = avg
	entry.ExpansionRate = rate
	entry.Processed = true
	return entry, nil
}
