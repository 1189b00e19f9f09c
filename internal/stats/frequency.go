// Package stats contains character statistics, ranking and capacity calculations.
package stats

import (
	"github.com/verte-zerg/charfit/internal/generic"
	"github.com/verte-zerg/charfit/internal/model"
)

// Analyze counts each distinct character and derives its share of the total
// in percent. Output follows first-seen order.
func Analyze(chars []string) ([]model.CharStat, error) {
	if len(chars) == 0 {
		return nil, ErrEmptyCorpus
	}
	index := make(map[string]int)
	var out []model.CharStat
	for _, ch := range chars {
		i, ok := index[ch]
		if !ok {
			i = len(out)
			index[ch] = i
			out = append(out, model.CharStat{Char: ch, Counted: true})
		}
		out[i].Count++
	}
	total := float64(len(chars))
	for i := range out {
		out[i].Frequency = float64(out[i].Count) / total * 100
	}
	return out, nil
}

// Generic converts a frequency table into statistics without counts. Widths
// stay pending until measured.
func Generic(table []generic.Entry) []model.CharStat {
	out := make([]model.CharStat, len(table))
	for i, e := range table {
		out[i] = model.CharStat{Char: e.Char, Frequency: e.Frequency}
	}
	return out
}

// TotalCount sums the counts of all statistics.
func TotalCount(data []model.CharStat) int {
	total := 0
	for _, s := range data {
		total += s.Count
	}
	return total
}

// TotalFrequency sums the frequencies of all statistics.
func TotalFrequency(data []model.CharStat) float64 {
	var total float64
	for _, s := range data {
		total += s.Frequency
	}
	return total
}
