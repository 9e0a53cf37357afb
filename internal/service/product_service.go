package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/Mihaix21/Stock-Forecasting/internal/cache"
	"github.com/Mihaix21/Stock-Forecasting/internal/domain"
	"github.com/Mihaix21/Stock-Forecasting/internal/repository"
	"github.com/rs/zerolog/log"
)

// ProductService serves product reads (cache-backed) and writes (cache
// invalidating) for the history store collaborator.
type ProductService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
}

func NewProductService(repo repository.ProductRepository, cacheImpl cache.ProductCache) *ProductService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopProductCache()
	}
	return &ProductService{repo: repo, cache: cacheImpl}
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	if products, ok, err := s.cache.GetList(ctx); err == nil && ok {
		return products, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("products: cache get list failed")
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = make([]*domain.Product, 0)
	}

	if err := s.cache.SetList(ctx, products); err != nil {
		log.Warn().Err(err).Msg("products: cache set list failed")
	}

	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if product, ok, err := s.cache.GetProduct(ctx, id); err == nil && ok {
		return product, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("product_id", id).Msg("products: cache get failed")
	}

	product, err := s.repo.GetProductWithHistory(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		log.Warn().Err(err).Int64("product_id", id).Msg("products: cache set failed")
	}

	return product, nil
}

// Create validates and stores a product with its (optional) initial history.
// History is sorted ascending by date before persisting so the (product,
// date) ordering invariant holds from the first read.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) (int64, error) {
	if product.Name == "" {
		return 0, fmt.Errorf("%w: stock_name is required", domain.ErrInvalidRequest)
	}
	if product.MinStockLevel < 0 {
		return 0, fmt.Errorf("%w: min_stock_level must not be negative", domain.ErrInvalidRequest)
	}

	sortHistory(product.History)

	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx, id)
	return id, nil
}

func (s *ProductService) AppendHistory(ctx context.Context, productID int64, records []domain.HistoryRecord) error {
	for _, rec := range records {
		if rec.Date.IsZero() {
			return fmt.Errorf("%w: history record date is required", domain.ErrInvalidRequest)
		}
		if rec.DailySales < 0 || rec.StockQuantity < 0 {
			return fmt.Errorf("%w: sales and stock must not be negative", domain.ErrInvalidRequest)
		}
	}

	sortHistory(records)

	if err := s.repo.AppendHistory(ctx, productID, records); err != nil {
		return err
	}

	s.invalidate(ctx, productID)
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Int64("product_id", id).Msg("products: cache invalidate failed")
	}
}

func sortHistory(records []domain.HistoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
