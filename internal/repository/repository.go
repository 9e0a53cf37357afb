package repository

import (
	"context"

	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
)

// ProductRepository is the history store: products and their daily sales
// records. GetProductWithHistory returns one consistent snapshot; the engine
// never re-reads mid-computation.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProductWithHistory(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (int64, error)
	AppendHistory(ctx context.Context, productID int64, records []domain.HistoryRecord) error
	DeleteProduct(ctx context.Context, id int64) error
}

// RunRepository persists computed plans as runs for the alerts history view.
type RunRepository interface {
	SaveRun(ctx context.Context, run *domain.ForecastRun) (int64, error)
	ListRuns(ctx context.Context, productID int64, limit int) ([]*domain.ForecastRun, error)
	DeleteRun(ctx context.Context, id int64) error
}
