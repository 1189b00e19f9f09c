package stats

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/model"
)

// SortField selects the statistic column used for ranking.
type SortField string

const (
	SortChar      SortField = "char"
	SortCount     SortField = "count"
	SortFrequency SortField = "frequency"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortField validates a sort field name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortChar, SortCount, SortFrequency:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q (want char, count or frequency)", s)
}

// ParseSortDirection validates a sort direction name.
func ParseSortDirection(s string) (SortDirection, error) {
	switch d := SortDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case SortAsc, SortDesc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q (want asc or desc)", s)
}

// Reverse returns the opposite direction.
func (d SortDirection) Reverse() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

type rankOptions struct {
	locale language.Tag
}

// RankOption configures Sort.
type RankOption func(*rankOptions)

// WithLocale sets the collation locale used for character comparison.
func WithLocale(tag language.Tag) RankOption {
	return func(o *rankOptions) {
		o.locale = tag
	}
}

// Sort orders statistics in place. For SortChar letters rank before digits
// and digits before symbols in both directions; the direction only reverses
// the case- and accent-insensitive comparison inside a tier.
func Sort(data []model.CharStat, field SortField, dir SortDirection, opts ...RankOption) {
	o := rankOptions{locale: language.Und}
	for _, opt := range opts {
		opt(&o)
	}
	sign := 1
	if dir == SortDesc {
		sign = -1
	}

	switch field {
	case SortChar:
		col := collate.New(o.locale, collate.IgnoreCase, collate.IgnoreDiacritics)
		sort.SliceStable(data, func(i, j int) bool {
			ci, cj := corpus.ClassOf(data[i].Char), corpus.ClassOf(data[j].Char)
			if ci != cj {
				return ci < cj
			}
			return sign*col.CompareString(data[i].Char, data[j].Char) < 0
		})
	case SortCount:
		sort.SliceStable(data, func(i, j int) bool {
			return sign*compareInt(data[i].Count, data[j].Count) < 0
		})
	case SortFrequency:
		sort.SliceStable(data, func(i, j int) bool {
			return sign*compareFloat(data[i].Frequency, data[j].Frequency) < 0
		})
	}
}

// Sorted returns a sorted copy and leaves data untouched.
func Sorted(data []model.CharStat, field SortField, dir SortDirection, opts ...RankOption) []model.CharStat {
	out := make([]model.CharStat, len(data))
	copy(out, data)
	Sort(out, field, dir, opts...)
	return out
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
