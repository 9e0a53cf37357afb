package forecast

import (
	"fmt"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
)

// Engine computes replenishment plans. It is stateless and safe for
// concurrent use: every call operates only on its arguments.
type Engine struct {
	alpha float64
}

func NewEngine(alpha float64) *Engine {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	return &Engine{alpha: alpha}
}

// Plan runs the full pipeline against a read-only product snapshot: demand
// estimation, review scheduling from the anchor date, stock projection, and
// the backtest score, assembled into one canonical plan.
//
// An empty or single-point history degrades gracefully (zero or flat demand,
// accuracy absent); it is not an error. Non-positive horizon parameters are
// rejected before any computation.
func (e *Engine) Plan(product *domain.Product, req domain.ForecastRequest, anchor domain.Date) (*domain.ForecastPlan, error) {
	if req.Months <= 0 || req.ReviewDays <= 0 {
		return nil, fmt.Errorf("%w: months=%d review_days=%d", domain.ErrInvalidRequest, req.Months, req.ReviewDays)
	}

	estimate := EstimateDemand(product.History, e.alpha)
	schedule := ReviewSchedule(anchor, req.Months, req.ReviewDays)

	entries := ProjectStock(anchor, schedule, Projection{
		InitialStock:  product.CurrentStock(),
		MinStockLevel: product.MinStockLevel,
		DemandRate:    estimate.Rate,
		ReviewDays:    req.ReviewDays,
	})
	if len(entries) != len(schedule) {
		return nil, fmt.Errorf("%w: %d entries for %d review dates", domain.ErrInconsistency, len(entries), len(schedule))
	}

	accuracy := BacktestAccuracy(product.History, e.alpha)

	return &domain.ForecastPlan{
		Entries: entries,
		Summary: assembleSummary(entries, accuracy),
	}, nil
}

func assembleSummary(entries []domain.ReviewPlanEntry, accuracy *float64) domain.ForecastSummary {
	var total float64
	for _, entry := range entries {
		total += entry.OrderQty
	}

	var next *domain.Date
	if len(entries) > 0 {
		first := entries[0].ReviewDate
		next = &first
	}

	return domain.ForecastSummary{
		NextReviewDate: next,
		TotalOrderQty:  round2(total),
		AccuracyPct:    accuracy,
	}
}
