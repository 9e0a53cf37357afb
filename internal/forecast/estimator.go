package forecast

import (
	"math"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
)

// DefaultAlpha is the exponential smoothing factor used when the caller does
// not configure one. Recent days dominate the rate estimate.
const DefaultAlpha = 0.3

// Estimate is the demand model for one product: expected sales per day and
// the dispersion of the observed series around the smoothed rate.
// VariabilityKnown is false when the history is too short (fewer than two
// daily points) to measure dispersion at all.
type Estimate struct {
	Rate             float64
	Variability      float64
	VariabilityKnown bool
	Observations     int
}

// EstimateDemand fits an exponentially weighted moving average over the daily
// sales series and reports the final smoothed value as the per-day demand
// rate, with the residual standard deviation as variability.
//
// The estimate is purely a function of the history: identical input yields an
// identical Estimate.
func EstimateDemand(history []domain.HistoryRecord, alpha float64) Estimate {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}

	series := dailySeries(history)
	switch len(series) {
	case 0:
		return Estimate{}
	case 1:
		return Estimate{Rate: series[0], Observations: 1}
	}

	smoothed := ewma(series, alpha)

	var sumSq float64
	for i, v := range series {
		r := v - smoothed[i]
		sumSq += r * r
	}
	variability := math.Sqrt(sumSq / float64(len(series)))

	return Estimate{
		Rate:             smoothed[len(smoothed)-1],
		Variability:      variability,
		VariabilityKnown: true,
		Observations:     len(series),
	}
}

// ewma returns the exponentially smoothed series: s[0] = v[0],
// s[i] = alpha*v[i] + (1-alpha)*s[i-1].
func ewma(series []float64, alpha float64) []float64 {
	smoothed := make([]float64, len(series))
	smoothed[0] = series[0]
	for i := 1; i < len(series); i++ {
		smoothed[i] = alpha*series[i] + (1-alpha)*smoothed[i-1]
	}
	return smoothed
}
