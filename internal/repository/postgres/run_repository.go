package postgres

import (
	"context"
	"fmt"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/jmoiron/sqlx"
)

type runRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *runRepository {
	return &runRepository{db: db}
}

// SaveRun stores the run header and its plan entries atomically.
func (r *runRepository) SaveRun(ctx context.Context, run *domain.ForecastRun) (int64, error) {
	var id int64

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO forecast_runs (product_id, months, review_days, accuracy_pct, run_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, run.ProductID, run.Months, run.ReviewDays, run.AccuracyPct).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert forecast run: %w", err)
		}

		entryQuery := `
			INSERT INTO reorder_plans (run_id, review_date, stock_before, demand_next, order_qty, stockout)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		stmt, err := tx.PrepareContext(ctx, entryQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare plan statement: %w", err)
		}
		defer stmt.Close()

		for _, entry := range run.Entries {
			_, err := stmt.ExecContext(ctx, id,
				entry.ReviewDate.Time(),
				entry.StockBefore,
				entry.DemandNext,
				entry.OrderQty,
				entry.Stockout,
			)
			if err != nil {
				return fmt.Errorf("failed to insert plan entry: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// DeleteRun removes a run; its plan entries go with it via the cascade on
// reorder_plans.run_id.
func (r *runRepository) DeleteRun(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM forecast_runs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete forecast run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ListRuns returns the most recent runs, newest first, with their entries.
// productID 0 lists runs across all products.
func (r *runRepository) ListRuns(ctx context.Context, productID int64, limit int) ([]*domain.ForecastRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT r.id, r.product_id, p.stock_name, r.months, r.review_days, r.accuracy_pct, r.run_at
		FROM forecast_runs r
		JOIN products p ON p.id = r.product_id
		WHERE ($1 = 0 OR r.product_id = $1)
		ORDER BY r.run_at DESC, r.id DESC
		LIMIT $2
	`

	var runs []*domain.ForecastRun
	if err := sqlx.SelectContext(ctx, r.db, &runs, query, productID, limit); err != nil {
		return nil, fmt.Errorf("failed to list forecast runs: %w", err)
	}
	if len(runs) == 0 {
		return runs, nil
	}

	ids := make([]int64, 0, len(runs))
	byID := make(map[int64]*domain.ForecastRun, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
		byID[run.ID] = run
	}

	entryQuery, args, err := sqlx.In(`
		SELECT run_id, review_date, stock_before, demand_next, order_qty, stockout
		FROM reorder_plans
		WHERE run_id IN (?)
		ORDER BY run_id, review_date ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan entry query: %w", err)
	}

	var rows []struct {
		RunID int64 `db:"run_id"`
		domain.ReviewPlanEntry
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(entryQuery), args...); err != nil {
		return nil, fmt.Errorf("failed to list plan entries: %w", err)
	}

	for _, row := range rows {
		if run, ok := byID[row.RunID]; ok {
			run.Entries = append(run.Entries, row.ReviewPlanEntry)
		}
	}

	return runs, nil
}
