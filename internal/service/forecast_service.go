package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/config"
	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/Mihaix21/Stock-Forecasting/internal/forecast"
	"github.com/Mihaix21/Stock-Forecasting/internal/repository"
	"github.com/rs/zerolog/log"
)

// ForecastService glues the history store to the forecast engine. It is
// request-scoped and stateless: every call fetches one product snapshot and
// computes a plan from it.
type ForecastService struct {
	products repository.ProductRepository
	runs     repository.RunRepository
	engine   *forecast.Engine
	cfg      config.ForecastConfig
	now      func() time.Time
}

func NewForecastService(products repository.ProductRepository, runs repository.RunRepository, cfg config.ForecastConfig) *ForecastService {
	return &ForecastService{
		products: products,
		runs:     runs,
		engine:   forecast.NewEngine(cfg.SmoothingFactor),
		cfg:      cfg,
		now:      time.Now,
	}
}

// DefaultRequest returns the configured horizon defaults for callers that
// omit them.
func (s *ForecastService) DefaultRequest() domain.ForecastRequest {
	return domain.ForecastRequest{
		Months:     s.cfg.DefaultMonths,
		ReviewDays: s.cfg.DefaultReviewDays,
	}
}

// Plan validates the request, snapshots the product and computes its
// replenishment plan. Validation and product lookup fail before any engine
// component runs.
func (s *ForecastService) Plan(ctx context.Context, productID int64, req domain.ForecastRequest) (*domain.ForecastPlan, error) {
	if req.Months <= 0 || req.ReviewDays <= 0 {
		return nil, fmt.Errorf("%w: months=%d review_days=%d", domain.ErrInvalidRequest, req.Months, req.ReviewDays)
	}

	product, err := s.products.GetProductWithHistory(ctx, productID)
	if err != nil {
		return nil, err
	}

	plan, err := s.engine.Plan(product, req, s.anchorFor(product))
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int64("product_id", productID).
		Int("months", req.Months).
		Int("review_days", req.ReviewDays).
		Int("entries", len(plan.Entries)).
		Float64("total_order_qty", plan.Summary.TotalOrderQty).
		Msg("forecast plan computed")

	return plan, nil
}

// PlanAndSave computes a plan and persists it as a forecast run, returning
// the run id alongside the plan.
func (s *ForecastService) PlanAndSave(ctx context.Context, productID int64, req domain.ForecastRequest) (*domain.ForecastPlan, int64, error) {
	plan, err := s.Plan(ctx, productID, req)
	if err != nil {
		return nil, 0, err
	}

	run := &domain.ForecastRun{
		ProductID:   productID,
		Months:      req.Months,
		ReviewDays:  req.ReviewDays,
		AccuracyPct: plan.Summary.AccuracyPct,
		Entries:     plan.Entries,
	}

	runID, err := s.runs.SaveRun(ctx, run)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to save forecast run: %w", err)
	}

	return plan, runID, nil
}

// ListRuns returns persisted runs, newest first. productID 0 means all
// products.
func (s *ForecastService) ListRuns(ctx context.Context, productID int64, limit int) ([]*domain.ForecastRun, error) {
	return s.runs.ListRuns(ctx, productID, limit)
}

// DeleteRun removes one persisted run and its plan entries.
func (s *ForecastService) DeleteRun(ctx context.Context, id int64) error {
	if err := s.runs.DeleteRun(ctx, id); err != nil {
		return err
	}

	log.Debug().Int64("run_id", id).Msg("forecast run deleted")
	return nil
}

// anchorFor resolves the schedule anchor. In last_record mode the plan starts
// at the newest history date, so a fixed history always yields the same
// schedule; today mode follows the wall clock. A product with no history has
// no record date to anchor on, so it falls back to today.
func (s *ForecastService) anchorFor(product *domain.Product) domain.Date {
	if s.cfg.AnchorMode == config.AnchorToday || len(product.History) == 0 {
		return domain.DateOf(s.now())
	}
	return product.LastHistoryDate()
}
