package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/charfit/internal/corpus"
	"github.com/verte-zerg/charfit/internal/model"
)

func measured(char string, freq, width float64) model.CharStat {
	return model.CharStat{Char: char, Frequency: freq}.WithWidth(width)
}

func TestCapacityScenario(t *testing.T) {
	in := CapacityInput{
		PixelBudget: 500,
		Stats:       []model.CharStat{measured("a", 50, 10), measured("b", 50, 20)},
	}
	res, err := Capacity(in)
	require.NoError(t, err)
	assert.InDelta(t, 15, res.TotalFrequencyWidth, 1e-9)
	assert.Equal(t, 33, res.MaxCharLength)
	assert.Nil(t, res.ReducedMaxCharLength)
	assert.Nil(t, res.AdjustedMaxCharLength)

	in.ReduceByTenPercent = true
	in.Localization = model.DefaultLocalizationSettings().
		WithEnabled(true).
		WithUseGenericRates(true).
		WithGenericExpansionRate(1.4)
	res, err = Capacity(in)
	require.NoError(t, err)
	require.NotNil(t, res.ReducedMaxCharLength)
	require.NotNil(t, res.AdjustedMaxCharLength)
	assert.Equal(t, 29, *res.ReducedMaxCharLength)
	assert.Equal(t, 20, *res.AdjustedMaxCharLength)
	assert.Equal(t, 20, res.Effective())
}

func TestCapacityAdjustsFromMaxWithoutReduction(t *testing.T) {
	in := CapacityInput{
		PixelBudget:  500,
		Stats:        []model.CharStat{measured("a", 50, 10), measured("b", 50, 20)},
		Localization: model.DefaultLocalizationSettings().WithEnabled(true).WithUseGenericRates(true).WithGenericExpansionRate(1.4),
	}
	res, err := Capacity(in)
	require.NoError(t, err)
	require.NotNil(t, res.AdjustedMaxCharLength)
	assert.Equal(t, 23, *res.AdjustedMaxCharLength)
}

func TestCapacityLanguageRatesFlooredAtOne(t *testing.T) {
	l := model.DefaultLocalizationSettings().WithEnabled(true).
		WithLanguage(model.LanguageEntry{Code: "ja", ExpansionRate: 0.5, Processed: true})
	in := CapacityInput{
		PixelBudget:  100,
		Stats:        []model.CharStat{measured("a", 100, 10)},
		Localization: l,
	}
	res, err := Capacity(in)
	require.NoError(t, err)
	assert.Equal(t, 10, *res.AdjustedMaxCharLength)
	assert.Equal(t, 1.0, res.ExpansionRate)

	in.Localization = l.WithLanguage(model.LanguageEntry{Code: "de", ExpansionRate: 1.25, Processed: true})
	res, err = Capacity(in)
	require.NoError(t, err)
	assert.Equal(t, 8, *res.AdjustedMaxCharLength)
}

func TestCapacityDegenerateWidth(t *testing.T) {
	in := CapacityInput{
		PixelBudget: 500,
		Stats:       []model.CharStat{measured("a", 50, 0), measured("b", 50, 0)},
	}
	res, err := Capacity(in)
	require.ErrorIs(t, err, ErrDegenerateWidth)
	assert.Zero(t, res.MaxCharLength)

	_, err = Capacity(CapacityInput{PixelBudget: 500})
	require.ErrorIs(t, err, ErrDegenerateWidth, "empty statistics divide by zero")
}

func TestCapacityNotReady(t *testing.T) {
	cases := map[string]CapacityInput{
		"no budget": {Stats: []model.CharStat{measured("a", 100, 10)}},
		"pending":   {PixelBudget: 100, Stats: []model.CharStat{measured("a", 50, 10), {Char: "b", Frequency: 50}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Capacity(in)
			require.ErrorIs(t, err, ErrNotReady)
		})
	}
}

func TestCapacityMonotonicInWidth(t *testing.T) {
	prev := -1
	for w := 1.0; w <= 40; w += 0.5 {
		res, err := Capacity(CapacityInput{PixelBudget: 480, Stats: []model.CharStat{measured("a", 100, w)}})
		require.NoError(t, err)
		if prev >= 0 && res.MaxCharLength > prev {
			t.Fatalf("max length increased from %d to %d at width %.1f", prev, res.MaxCharLength, w)
		}
		prev = res.MaxCharLength
	}
}

func TestCapacityAdjustedNeverExceedsBase(t *testing.T) {
	for _, rate := range []float64{1, 1.1, 1.4, 2, 3.7} {
		for _, reduce := range []bool{false, true} {
			res, err := Capacity(CapacityInput{
				PixelBudget:        731,
				Stats:              []model.CharStat{measured("a", 70, 7), measured(" ", 30, 3)},
				ReduceByTenPercent: reduce,
				Localization:       model.DefaultLocalizationSettings().WithEnabled(true).WithUseGenericRates(true).WithGenericExpansionRate(rate),
			})
			require.NoError(t, err)
			base := res.MaxCharLength
			if res.ReducedMaxCharLength != nil {
				base = *res.ReducedMaxCharLength
			}
			assert.LessOrEqual(t, *res.AdjustedMaxCharLength, base)
		}
	}
}

func TestExpansionRates(t *testing.T) {
	base := corpus.Resolve(corpus.FromMap(map[string]string{"a": "Save", "b": "Cancel"}))
	lang := corpus.Resolve(corpus.FromMap(map[string]string{"a": "Speichern", "b": "Abbrechen"}))

	baseAvg, err := AverageLength(base)
	require.NoError(t, err)
	assert.InDelta(t, 5, baseAvg, 1e-9)

	entry, err := LanguageStats("de", lang, baseAvg, model.FilterConfig{})
	require.NoError(t, err)
	assert.True(t, entry.Processed)
	assert.InDelta(t, 9, entry.AverageLength, 1e-9)
	assert.InDelta(t, 1.8, entry.ExpansionRate, 1e-9)
	assert.NotEmpty(t, entry.CharacterData)

	_, err = LanguageStats("de", lang, 0, model.FilterConfig{})
	require.ErrorIs(t, err, ErrBaseNotProcessed)

	_, err = AverageLength(nil)
	require.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestEffectiveExpansionRate(t *testing.T) {
	l := model.DefaultLocalizationSettings()
	assert.Equal(t, 1.0, EffectiveExpansionRate(l))
	assert.Equal(t, model.DefaultGenericExpansionRate, EffectiveExpansionRate(l.WithUseGenericRates(true)))
	l = l.WithLanguage(model.LanguageEntry{Code: "fr", ExpansionRate: 1.2}).
		WithLanguage(model.LanguageEntry{Code: "de", ExpansionRate: 1.35})
	assert.Equal(t, 1.35, EffectiveExpansionRate(l))
}
