package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/cache"
	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// キャッシュのインメモリfake。FailGet で redis 障害を再現する
type fakeProductCache struct {
	products []model.Product
	has      bool
	FailGet  bool
	SetCalls int
}

func (f *fakeProductCache) Get(_ context.Context) ([]model.Product, error) {
	if f.FailGet {
		return nil, errors.New("connection refused")
	}
	if !f.has {
		return nil, cache.ErrCacheMiss
	}
	return f.products, nil
}

func (f *fakeProductCache) Set(_ context.Context, products []model.Product) error {
	f.products = products
	f.has = true
	f.SetCalls++
	return nil
}

func TestListProducts_CacheHitSkipsDB(t *testing.T) {
	products := &ProductRepoMock{}
	c := &fakeProductCache{}
	require.NoError(t, c.Set(context.Background(), []model.Product{
		{ID: 1, Name: "A", Category: "tea", Price: price("3.50"), StockQty: 4, InStock: true},
	}))
	uc := usecase.NewCatalogUsecase(products, c)

	views, err := uc.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), views[0].ID)
	products.AssertNotCalled(t, "ListPublic", mock.Anything)
}

func TestListProducts_CacheMissFillsCache(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("ListPublic", mock.Anything).Return([]model.Product{
		{ID: 1, Name: "A", Category: "tea", Price: price("3.50"), StockQty: 4, InStock: true},
		{ID: 2, Name: "B", Category: "tea", Price: price("2.00"), StockQty: 0, InStock: false},
	}, nil)
	c := &fakeProductCache{}
	uc := usecase.NewCatalogUsecase(products, c)

	views, err := uc.ListProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 1, c.SetCalls)
	products.AssertExpectations(t)
}

// redis が落ちていても一覧はDBから返す
func TestListProducts_CacheFailureFallsBackToDB(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("ListPublic", mock.Anything).Return([]model.Product{
		{ID: 1, Name: "A", Price: price("3.50"), InStock: true},
	}, nil)
	uc := usecase.NewCatalogUsecase(products, &fakeProductCache{FailGet: true})

	views, err := uc.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestListProducts_NoCacheConfigured(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("ListPublic", mock.Anything).Return([]model.Product{}, nil)
	uc := usecase.NewCatalogUsecase(products, nil)

	views, err := uc.ListProducts(context.Background())

	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetProduct_NotFound(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("FindByID", mock.Anything, int64(42)).Return(model.Product{}, repo.ErrNotFound)
	uc := usecase.NewCatalogUsecase(products, nil)

	_, err := uc.GetProduct(context.Background(), 42)

	ue, ok := usecase.AsUsecaseError(err)
	require.True(t, ok)
	assert.Equal(t, usecase.KindNotFound, ue.Kind)
}

func TestGetProduct_ReturnsStockState(t *testing.T) {
	products := &ProductRepoMock{}
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "A", Brand: "lupicia", Category: "tea",
		Price: price("3.50"), StockQty: 0, InStock: false,
	}, nil)
	uc := usecase.NewCatalogUsecase(products, nil)

	v, err := uc.GetProduct(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, v.InStock)
	assert.Equal(t, int64(0), v.StockQty)
	assert.True(t, v.Price.Equal(price("3.50")))
}
