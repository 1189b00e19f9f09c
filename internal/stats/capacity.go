package stats

import (
	"math"

	"github.com/verte-zerg/charfit/internal/model"
)

const reductionFactor = 0.9

// CapacityInput holds everything needed to derive character limits.
type CapacityInput struct {
	PixelBudget        float64
	Stats              []model.CharStat
	ReduceByTenPercent bool
	Localization       model.LocalizationSettings
}

// Ready reports whether the budget is set and no width is pending. An empty
// statistics list is ready and fails later as a degenerate width.
func (in CapacityInput) Ready() bool {
	if in.PixelBudget <= 0 {
		return false
	}
	for _, s := range in.Stats {
		if !s.HasWidth() {
			return false
		}
	}
	return true
}

// TotalFrequencyWidth is the expected pixel width of an average character.
func TotalFrequencyWidth(data []model.CharStat) float64 {
	var total float64
	for _, s := range data {
		total += s.Frequency / 100 * s.Width
	}
	return total
}

// Capacity derives the maximum character count for the pixel budget, then the
// ten percent reduction and finally the expansion adjustment, in that order.
func Capacity(in CapacityInput) (model.CapacityResult, error) {
	if !in.Ready() {
		return model.CapacityResult{}, ErrNotReady
	}
	total := TotalFrequencyWidth(in.Stats)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return model.CapacityResult{}, ErrDegenerateWidth
	}

	res := model.CapacityResult{
		MaxCharLength:       int(math.Floor(in.PixelBudget / total)),
		TotalFrequencyWidth: total,
	}
	base := res.MaxCharLength
	if in.ReduceByTenPercent {
		reduced := int(math.Floor(float64(res.MaxCharLength) * reductionFactor))
		res.ReducedMaxCharLength = &reduced
		base = reduced
	}
	if in.Localization.Enabled {
		rate := EffectiveExpansionRate(in.Localization)
		if rate <= 0 || math.IsNaN(rate) {
			rate = 1
		}
		adjusted := int(math.Floor(float64(base) / rate))
		res.AdjustedMaxCharLength = &adjusted
		res.ExpansionRate = rate
	}
	return res, nil
}
