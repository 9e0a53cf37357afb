package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/config"
	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/Mihaix21/Stock-Forecasting/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Scheduler periodically recomputes and persists plans for every active
// product, keeping the alerts history fresh without user action.
type Scheduler struct {
	cron     *cron.Cron
	forecast *service.ForecastService
	products *service.ProductService
	cfg      config.SchedulerConfig
}

func NewScheduler(cfg config.SchedulerConfig, forecastSvc *service.ForecastService, productSvc *service.ProductService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		forecast: forecastSvc,
		products: productSvc,
		cfg:      cfg,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Spec, s.recomputePlans); err != nil {
		return err
	}

	s.cron.Start()
	log.Info().Str("spec", s.cfg.Spec).Msg("scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Info().Msg("scheduler stopped")
}

func (s *Scheduler) recomputePlans() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	products, err := s.products.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduler: failed to list products")
		return
	}

	req := s.forecast.DefaultRequest()

	workers := s.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))

	var wg sync.WaitGroup
	var computed atomic.Int64

	for _, product := range products {
		if !product.IsActive {
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("scheduler: recompute pass aborted")
			break
		}

		wg.Add(1)
		go func(product *domain.Product) {
			defer wg.Done()
			defer sem.Release(1)

			plan, runID, err := s.forecast.PlanAndSave(ctx, product.ID, req)
			if err != nil {
				log.Error().Err(err).Int64("product_id", product.ID).Msg("scheduler: plan computation failed")
				return
			}

			log.Info().
				Int64("product_id", product.ID).
				Int64("run_id", runID).
				Int("entries", len(plan.Entries)).
				Float64("total_order_qty", plan.Summary.TotalOrderQty).
				Msg("scheduler: plan recomputed")
			computed.Add(1)
		}(product)
	}

	wg.Wait()
	log.Info().Int64("products", computed.Load()).Msg("scheduler: recompute pass finished")
}
