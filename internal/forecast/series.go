package forecast

import (
	"math"
	"sort"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
)

// dailySeries expands a product history into one sales value per calendar day
// between the first and last record.
//
// Days where the product was out of stock (stock_quantity <= 0) undercount
// true demand, so they are treated the same as missing days: both are filled
// with the median of observed sales in a centered 7-day window, or 0 when the
// whole window is unobserved. Values are clipped at 0.
func dailySeries(history []domain.HistoryRecord) []float64 {
	if len(history) == 0 {
		return nil
	}

	first := history[0].Date
	last := history[len(history)-1].Date
	n := first.DaysUntil(last) + 1
	if n < 1 {
		return nil
	}

	values := make([]float64, n)
	observed := make([]bool, n)

	for _, rec := range history {
		idx := first.DaysUntil(rec.Date)
		if idx < 0 || idx >= n {
			continue
		}
		if rec.StockQuantity <= 0 {
			continue
		}
		values[idx] += math.Max(0, rec.DailySales)
		observed[idx] = true
	}

	for i := 0; i < n; i++ {
		if observed[i] {
			continue
		}
		values[i] = windowMedian(values, observed, i, 3)
	}

	return values
}

// windowMedian returns the median of observed values in [i-radius, i+radius],
// or 0 when no value in the window was observed.
func windowMedian(values []float64, observed []bool, i, radius int) float64 {
	lo := i - radius
	if lo < 0 {
		lo = 0
	}
	hi := i + radius
	if hi > len(values)-1 {
		hi = len(values) - 1
	}

	window := make([]float64, 0, hi-lo+1)
	for j := lo; j <= hi; j++ {
		if observed[j] {
			window = append(window, values[j])
		}
	}
	if len(window) == 0 {
		return 0
	}

	sort.Float64s(window)
	mid := len(window) / 2
	if len(window)%2 == 1 {
		return window[mid]
	}
	return (window[mid-1] + window[mid]) / 2
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
