package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/jmoiron/sqlx"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	query := `
		SELECT id, stock_name, min_stock_level, is_active, created_at, updated_at
		FROM products
		ORDER BY id
	`

	var products []*domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetProductWithHistory loads one product and its full ordered history in a
// single transaction, so the engine computes against a consistent snapshot.
func (r *productRepository) GetProductWithHistory(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			SELECT id, stock_name, min_stock_level, is_active, created_at, updated_at
			FROM products
			WHERE id = $1
		`
		if err := tx.GetContext(ctx, &product, query, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("failed to get product: %w", err)
		}

		historyQuery := `
			SELECT date, daily_sales, stock_quantity
			FROM sales_records
			WHERE product_id = $1
			ORDER BY date ASC
		`
		if err := tx.SelectContext(ctx, &product.History, historyQuery, id); err != nil {
			return fmt.Errorf("failed to get sales history: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) (int64, error) {
	var id int64

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO products (stock_name, min_stock_level, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, product.Name, product.MinStockLevel, product.IsActive).Scan(&id); err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}

		return insertHistory(ctx, tx, id, product.History)
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *productRepository) AppendHistory(ctx context.Context, productID int64, records []domain.HistoryRecord) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, productID); err != nil {
			return fmt.Errorf("failed to check product: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}

		return insertHistory(ctx, tx, productID, records)
	})
}

func (r *productRepository) DeleteProduct(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
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

// insertHistory upserts daily records; a second record for the same date
// replaces the first, keeping the (product, date) uniqueness invariant.
func insertHistory(ctx context.Context, tx *sqlx.Tx, productID int64, records []domain.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO sales_records (product_id, date, daily_sales, stock_quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, date)
		DO UPDATE SET
			daily_sales = EXCLUDED.daily_sales,
			stock_quantity = EXCLUDED.stock_quantity
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare history statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, productID, rec.Date.Time(), rec.DailySales, rec.StockQuantity); err != nil {
			return fmt.Errorf("failed to insert sales record: %w", err)
		}
	}

	return nil
}
