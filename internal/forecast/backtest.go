package forecast

import (
	"math"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
)

const (
	// backtestWindow is the held-out suffix length, in days.
	backtestWindow = 14
	// minBacktestPoints is the shortest daily series that can be backtested:
	// at least one window of training data plus the held-out window.
	minBacktestPoints = 2 * backtestWindow
)

// BacktestAccuracy scores the demand model with a rolling-origin one-step
// evaluation over the last backtestWindow days of history: for each held-out
// day the EWMA trained on everything before it predicts that day's sales.
//
//	accuracy_pct = 100 * max(0, 1 - WAPE)   clamped to [0,100]
//
// where WAPE = sum(|actual - predicted|) / sum(actual). A history shorter
// than minBacktestPoints cannot be scored and yields nil, which callers must
// surface as "unknown" rather than zero.
func BacktestAccuracy(history []domain.HistoryRecord, alpha float64) *float64 {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}

	series := dailySeries(history)
	if len(series) < minBacktestPoints {
		return nil
	}

	split := len(series) - backtestWindow

	// Warm the model on the training prefix.
	smoothed := series[0]
	for i := 1; i < split; i++ {
		smoothed = alpha*series[i] + (1-alpha)*smoothed
	}

	var absErr, actual float64
	for i := split; i < len(series); i++ {
		absErr += math.Abs(series[i] - smoothed)
		actual += series[i]
		smoothed = alpha*series[i] + (1-alpha)*smoothed
	}

	wape := 0.0
	if actual > 0 {
		wape = absErr / actual
	}

	accuracy := 100 * (1 - wape)
	if accuracy < 0 {
		accuracy = 0
	} else if accuracy > 100 {
		accuracy = 100
	}
	accuracy = round1(accuracy)

	return &accuracy
}
