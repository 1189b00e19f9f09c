package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/generic"
	"github.com/verte-zerg/charfit/internal/model"
)

func analyzeCorpus(t *testing.T, c corpus.Corpus, cfg model.FilterConfig) []model.CharStat {
	t.Helper()
	data, err := Analyze(corpus.Normalize(corpus.Resolve(c), cfg))
	require.NoError(t, err)
	return data
}

var byChar = cmpopts.SortSlices(func(a, b model.CharStat) bool { return a.Char < b.Char })

func TestAnalyzeScenario(t *testing.T) {
	data := analyzeCorpus(t, corpus.Corpus{{Key: "a", Value: corpus.FromString("aabbc")}}, model.FilterConfig{})
	want := []model.CharStat{
		{Char: "a", Count: 2, Counted: true, Frequency: 40},
		{Char: "b", Count: 2, Counted: true, Frequency: 40},
		{Char: "c", Count: 1, Counted: true, Frequency: 20},
	}
	if diff := cmp.Diff(want, data, byChar, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
}

func TestAnalyzeIgnoresSymbols(t *testing.T) {
	c := corpus.Corpus{
		{Key: "a", Value: corpus.FromString("aabbc")},
		{Key: "b", Value: corpus.FromString("a!b!c!")},
	}
	data := analyzeCorpus(t, c, model.FilterConfig{IgnoreSymbols: true})
	for _, s := range data {
		assert.NotEqual(t, "!", s.Char)
	}
	// "aabbc abc": the joining space counts, the exclamation marks do not.
	assert.Equal(t, 9, TotalCount(data))
	assert.InDelta(t, 100, TotalFrequency(data), 1e-9)

	ranked := Sorted(data, SortChar, SortAsc)
	chars := make([]string, len(ranked))
	for i, s := range ranked {
		chars[i] = s.Char
	}
	assert.Equal(t, []string{" ", "a", "b", "c"}, chars)
}

func TestAnalyzeEmptyCorpus(t *testing.T) {
	_, err := Analyze(nil)
	require.True(t, errors.Is(err, ErrEmptyCorpus))

	chars := corpus.Normalize(corpus.Resolve(corpus.Corpus{{Key: "a", Value: corpus.FromString("123 ")}}),
		model.FilterConfig{IgnoreNumbers: true, IgnoreSpaces: true})
	_, err = Analyze(chars)
	require.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestAnalyzeFrequenciesSumToHundred(t *testing.T) {
	inputs := []string{
		"The quick brown fox jumps over the lazy dog 1234567890!",
		"Ünïcödé — ünd Straße, 東京 and emoji 👍🏽👍🏽",
		"x",
		"   ",
	}
	cfgs := []model.FilterConfig{
		{},
		{IgnoreCapitals: true},
		{IgnoreNumbers: true, IgnoreSymbols: true},
		{IgnoreSpaces: true, IgnoreCapitals: true},
	}
	for _, in := range inputs {
		for _, cfg := range cfgs {
			chars := corpus.Normalize(corpus.Resolve(corpus.Corpus{{Key: "k", Value: corpus.FromString(in)}}), cfg)
			data, err := Analyze(chars)
			if len(chars) == 0 {
				require.ErrorIs(t, err, ErrEmptyCorpus)
				continue
			}
			require.NoError(t, err)
			assert.Equal(t, len(chars), TotalCount(data))
			if math.Abs(TotalFrequency(data)-100) > 1e-9 {
				t.Fatalf("frequencies for %q sum to %f", in, TotalFrequency(data))
			}
			seen := map[string]bool{}
			for _, s := range data {
				require.False(t, seen[s.Char], "duplicate %q", s.Char)
				seen[s.Char] = true
			}
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	c := corpus.Corpus{
		{Key: "a", Value: corpus.FromString("Hello, World")},
		{Key: "b", Value: corpus.FromTranslation("Hallo, Welt")},
	}
	cfg := model.FilterConfig{IgnoreCapitals: true}
	first := analyzeCorpus(t, c, cfg)
	second := analyzeCorpus(t, c, cfg)
	if diff := cmp.Diff(first, second, byChar); diff != "" {
		t.Fatalf("analysis not idempotent (-first +second):\n%s", diff)
	}
}

func TestGenericLeavesCountsAndWidthsUnset(t *testing.T) {
	data := Generic([]generic.Entry{{Char: "a", Frequency: 60}, {Char: "b", Frequency: 40}})
	require.Len(t, data, 2)
	for _, s := range data {
		assert.False(t, s.Counted)
		assert.False(t, s.HasWidth())
	}
	assert.InDelta(t, 100, TotalFrequency(data), 1e-9)
}
