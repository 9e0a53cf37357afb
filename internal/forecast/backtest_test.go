package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktestAccuracy_ShortHistoryIsAbsent(t *testing.T) {
	assert.Nil(t, BacktestAccuracy(nil, DefaultAlpha))
	assert.Nil(t, BacktestAccuracy(flatHistory(1, 10, 100), DefaultAlpha))
	assert.Nil(t, BacktestAccuracy(flatHistory(minBacktestPoints-1, 10, 100), DefaultAlpha))
}

func TestBacktestAccuracy_PerfectFlatSeries(t *testing.T) {
	acc := BacktestAccuracy(flatHistory(minBacktestPoints, 10, 100), DefaultAlpha)

	require.NotNil(t, acc)
	assert.InDelta(t, 100, *acc, 1e-9, "a constant series is perfectly predictable")
}

func TestBacktestAccuracy_NoisySeriesWithinBounds(t *testing.T) {
	history := flatHistory(60, 10, 100)
	// Alternate the held-out window hard so the one-step forecast misses.
	for i := 40; i < 60; i++ {
		if i%2 == 0 {
			history[i].DailySales = 30
		} else {
			history[i].DailySales = 0
		}
	}

	acc := BacktestAccuracy(history, DefaultAlpha)

	require.NotNil(t, acc)
	assert.GreaterOrEqual(t, *acc, 0.0)
	assert.LessOrEqual(t, *acc, 100.0)
	assert.Less(t, *acc, 100.0, "a noisy tail cannot score perfectly")
}

func TestBacktestAccuracy_Deterministic(t *testing.T) {
	history := flatHistory(90, 8, 100)
	for i := range history {
		if i%5 == 0 {
			history[i].DailySales = 14
		}
	}

	first := BacktestAccuracy(history, DefaultAlpha)
	second := BacktestAccuracy(history, DefaultAlpha)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}
