package usecase

import (
	"context"

	"app/internal/cache"
	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogUsecase は公開カタログの参照。
// 一覧はキャッシュするが、在庫・販売可否は追加時と確定時にDBで再チェックされる。
type CatalogUsecase struct {
	products repo.ProductRepository
	cache    cache.ProductCache // nil ならキャッシュ無効
}

func NewCatalogUsecase(products repo.ProductRepository, c cache.ProductCache) *CatalogUsecase {
	return &CatalogUsecase{
		products: products,
		cache:    c,
	}
}

type ProductView struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	StockQty int64           `json:"stock_qty"`
	InStock  bool            `json:"in_stock"`
}

// ListProducts はカテゴリ→商品名順の一覧を返す。
func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]ProductView, error) {
	if u.cache != nil {
		if cached, err := u.cache.Get(ctx); err == nil {
			return toProductViews(cached), nil
		}
		// miss も redis 障害も、DBから出せるなら一覧は返す
	}

	products, err := u.products.ListPublic(ctx)
	if err != nil {
		return []ProductView{}, NewError(KindInternal, "db error")
	}

	if u.cache != nil {
		_ = u.cache.Set(ctx, products)
	}

	return toProductViews(products), nil
}

func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64) (ProductView, error) {
	if productID <= 0 {
		return ProductView{}, NewError(KindInvalidInput, "invalid id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductView{}, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return ProductView{}, NewError(KindInternal, "db error")
	}

	return toProductView(p), nil
}

func toProductViews(products []model.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	return views
}

func toProductView(p model.Product) ProductView {
	return ProductView{
		ID:       p.ID,
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		Price:    p.Price,
		StockQty: p.StockQty,
		InStock:  p.InStock,
	}
}
