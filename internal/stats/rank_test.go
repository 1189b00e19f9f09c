package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/charfit/internal/model"
)

func statsFor(chars ...string) []model.CharStat {
	out := make([]model.CharStat, len(chars))
	for i, ch := range chars {
		out[i] = model.CharStat{Char: ch, Count: i + 1, Counted: true, Frequency: float64(i + 1)}
	}
	return out
}

func charsOf(data []model.CharStat) []string {
	out := make([]string, len(data))
	for i, s := range data {
		out[i] = s.Char
	}
	return out
}

func TestSortCharClassTiers(t *testing.T) {
	// Code points of symbols and digits sort before letters; tiers must win.
	data := statsFor("!", "9", "b", "#", "0", "A")
	Sort(data, SortChar, SortAsc)
	got := charsOf(data)
	assert.Equal(t, []string{"A", "b", "0", "9"}, got[:4])
	assert.ElementsMatch(t, []string{"!", "#"}, got[4:])
}

func TestSortCharDescendingKeepsTiers(t *testing.T) {
	data := statsFor("!", "9", "b", "#", "0", "A")
	Sort(data, SortChar, SortDesc)
	got := charsOf(data)
	assert.Equal(t, []string{"b", "A", "9", "0"}, got[:4])
	assert.ElementsMatch(t, []string{"!", "#"}, got[4:])
}

func TestSortCharCaseAndAccentInsensitive(t *testing.T) {
	data := statsFor("b", "É", "a", "C", "e")
	Sort(data, SortChar, SortAsc)
	got := charsOf(data)
	assert.Equal(t, []string{"a", "b", "C"}, got[:3])
	assert.ElementsMatch(t, []string{"É", "e"}, got[3:])
}

func TestSortByCountAndFrequency(t *testing.T) {
	data := statsFor("x", "y", "z")
	Sort(data, SortCount, SortDesc)
	assert.Equal(t, []string{"z", "y", "x"}, charsOf(data))
	Sort(data, SortFrequency, SortAsc)
	assert.Equal(t, []string{"x", "y", "z"}, charsOf(data))
}

func TestSortedLeavesInputUntouched(t *testing.T) {
	data := statsFor("b", "a")
	sorted := Sorted(data, SortChar, SortAsc)
	assert.Equal(t, []string{"b", "a"}, charsOf(data))
	assert.Equal(t, []string{"a", "b"}, charsOf(sorted))
}

func TestParseSortInputs(t *testing.T) {
	f, err := ParseSortField(" Frequency ")
	require.NoError(t, err)
	assert.Equal(t, SortFrequency, f)
	_, err = ParseSortField("width")
	require.Error(t, err)

	d, err := ParseSortDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, d)
	assert.Equal(t, SortAsc, d.Reverse())
	_, err = ParseSortDirection("up")
	require.Error(t, err)
}
