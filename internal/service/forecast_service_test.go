package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mihaix21/Stock-Forecasting/internal/config"
	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[int64]*domain.Product
}

func (f *fakeProductRepo) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetProductWithHistory(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *domain.Product) (int64, error) {
	id := int64(len(f.products) + 1)
	product.ID = id
	f.products[id] = product
	return id, nil
}

func (f *fakeProductRepo) AppendHistory(ctx context.Context, productID int64, records []domain.HistoryRecord) error {
	p, ok := f.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.History = append(p.History, records...)
	return nil
}

func (f *fakeProductRepo) DeleteProduct(ctx context.Context, id int64) error {
	if _, ok := f.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeRunRepo struct {
	saved  []*domain.ForecastRun
	nextID int64
}

func (f *fakeRunRepo) SaveRun(ctx context.Context, run *domain.ForecastRun) (int64, error) {
	f.nextID++
	run.ID = f.nextID
	f.saved = append(f.saved, run)
	return f.nextID, nil
}

func (f *fakeRunRepo) ListRuns(ctx context.Context, productID int64, limit int) ([]*domain.ForecastRun, error) {
	return f.saved, nil
}

func (f *fakeRunRepo) DeleteRun(ctx context.Context, id int64) error {
	for i, run := range f.saved {
		if run.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func testForecastConfig() config.ForecastConfig {
	return config.ForecastConfig{
		AnchorMode:        config.AnchorLastRecord,
		DefaultMonths:     3,
		DefaultReviewDays: 14,
		SmoothingFactor:   0.3,
	}
}

func testProduct() *domain.Product {
	start := domain.NewDate(2024, time.January, 1)
	history := make([]domain.HistoryRecord, 0, 30)
	for i := 0; i < 30; i++ {
		history = append(history, domain.HistoryRecord{
			Date:          start.AddDays(i),
			DailySales:    10,
			StockQuantity: 200,
		})
	}
	return &domain.Product{ID: 1, Name: "Espresso Beans 1kg", MinStockLevel: 50, IsActive: true, History: history}
}

func TestForecastServicePlan_AnchorsAtLastRecord(t *testing.T) {
	product := testProduct()
	svc := NewForecastService(&fakeProductRepo{products: map[int64]*domain.Product{1: product}}, &fakeRunRepo{}, testForecastConfig())

	plan, err := svc.Plan(context.Background(), 1, domain.ForecastRequest{Months: 1, ReviewDays: 15})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	wantFirst := product.LastHistoryDate().AddDays(15)
	assert.Equal(t, wantFirst, plan.Entries[0].ReviewDate)
}

func TestForecastServicePlan_TodayAnchorUsesClock(t *testing.T) {
	cfg := testForecastConfig()
	cfg.AnchorMode = config.AnchorToday

	product := testProduct()
	svc := NewForecastService(&fakeProductRepo{products: map[int64]*domain.Product{1: product}}, &fakeRunRepo{}, cfg)
	svc.now = func() time.Time { return time.Date(2024, time.September, 1, 10, 30, 0, 0, time.UTC) }

	plan, err := svc.Plan(context.Background(), 1, domain.ForecastRequest{Months: 1, ReviewDays: 15})
	require.NoError(t, err)
	require.NotEmpty(t, plan.Entries)

	assert.Equal(t, domain.NewDate(2024, time.September, 16), plan.Entries[0].ReviewDate)
}

func TestForecastServicePlan_ProductNotFound(t *testing.T) {
	svc := NewForecastService(&fakeProductRepo{products: map[int64]*domain.Product{}}, &fakeRunRepo{}, testForecastConfig())

	_, err := svc.Plan(context.Background(), 99, domain.ForecastRequest{Months: 1, ReviewDays: 15})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestForecastServicePlan_RejectsInvalidBeforeFetch(t *testing.T) {
	// The product does not exist either, but validation must win: invalid
	// input is rejected before the store is consulted.
	svc := NewForecastService(&fakeProductRepo{products: map[int64]*domain.Product{}}, &fakeRunRepo{}, testForecastConfig())

	_, err := svc.Plan(context.Background(), 99, domain.ForecastRequest{Months: 0, ReviewDays: 15})
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
}

func TestForecastServicePlanAndSave(t *testing.T) {
	product := testProduct()
	runs := &fakeRunRepo{}
	svc := NewForecastService(&fakeProductRepo{products: map[int64]*domain.Product{1: product}}, runs, testForecastConfig())

	plan, runID, err := svc.PlanAndSave(context.Background(), 1, domain.ForecastRequest{Months: 1, ReviewDays: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	require.Len(t, runs.saved, 1)
	saved := runs.saved[0]
	assert.Equal(t, int64(1), saved.ProductID)
	assert.Equal(t, 1, saved.Months)
	assert.Equal(t, 15, saved.ReviewDays)
	assert.Equal(t, plan.Entries, saved.Entries)
	assert.Equal(t, plan.Summary.AccuracyPct, saved.AccuracyPct)
}

func TestForecastServiceDeleteRun(t *testing.T) {
	runs := &fakeRunRepo{saved: []*domain.ForecastRun{{ID: 7, ProductID: 1}}}
	svc := NewForecastService(&fakeProductRepo{}, runs, testForecastConfig())

	require.NoError(t, svc.DeleteRun(context.Background(), 7))
	assert.Empty(t, runs.saved)

	err := svc.DeleteRun(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForecastServiceDefaultRequest(t *testing.T) {
	svc := NewForecastService(&fakeProductRepo{}, &fakeRunRepo{}, testForecastConfig())

	req := svc.DefaultRequest()
	assert.Equal(t, 3, req.Months)
	assert.Equal(t, 14, req.ReviewDays)
}
