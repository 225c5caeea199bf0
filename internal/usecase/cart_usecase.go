package usecase

import (
	"context"

	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はカート操作の業務ロジックです。
// 追加時の在庫チェックは目安で、確定時（チェックアウト）にロック下で再検証します。
type CartUsecase struct {
	lines    repo.CartLineRepository
	products repo.ProductRepository
}

func NewCartUsecase(
	lines repo.CartLineRepository,
	products repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		lines:    lines,
		products: products,
	}
}

// カート1行分の表示。price は現在の商品価格。
type CartLineView struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	InStock   bool            `json:"in_stock"`
}

type CartView struct {
	Items      []CartLineView  `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type CartUpdateAction string

const (
	CartActionRemove      CartUpdateAction = "remove"
	CartActionSetQuantity CartUpdateAction = "set_qty"
)

// AddToCart はカートに追加（同一商品は数量加算）。行idを返す。
func (u *CartUsecase) AddToCart(ctx context.Context, customerID int64, productID int64, qty int64) (int64, error) {
	if customerID <= 0 {
		return 0, NewError(KindInvalidInput, "invalid customer")
	}
	if productID <= 0 {
		return 0, NewError(KindInvalidInput, "invalid product_id")
	}
	if qty < 1 {
		return 0, NewError(KindInvalidInput, "invalid quantity")
	}

	// 商品チェック（販売中かつ在庫あり）
	p, err := u.products.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return 0, NewError(KindNotFound, "product not found")
	}
	if err != nil {
		return 0, NewError(KindInternal, "db error")
	}
	if !p.InStock || p.StockQty <= 0 {
		return 0, NewError(KindProductUnavailable, "product is out of stock")
	}

	lineID, err := u.lines.UpsertActiveLine(ctx, customerID, productID, qty)
	if err != nil {
		return 0, NewError(KindInternal, "db error")
	}

	return lineID, nil
}

// ViewCart は active 明細を商品名順で返す（合計つき）。
func (u *CartUsecase) ViewCart(ctx context.Context, customerID int64) (CartView, error) {
	if customerID <= 0 {
		return CartView{}, NewError(KindInvalidInput, "invalid customer")
	}

	rows, err := u.lines.ListActiveWithProduct(ctx, customerID)
	if err != nil {
		return CartView{}, NewError(KindInternal, "db error")
	}

	items := make([]CartLineView, 0, len(rows))
	total := decimal.Zero

	for _, row := range rows {
		lineTotal := row.Product.Price.Mul(decimal.NewFromInt(row.Line.Quantity))

		items = append(items, CartLineView{
			ID:        row.Line.ID,
			ProductID: row.Product.ID,
			Name:      row.Product.Name,
			Brand:     row.Product.Brand,
			Price:     row.Product.Price,
			Quantity:  row.Line.Quantity,
			LineTotal: lineTotal,
			InStock:   row.Product.InStock,
		})

		total = total.Add(lineTotal)
	}

	return CartView{Items: items, GrandTotal: total}, nil
}

// UpdateCart は remove / set_qty。qty<=0 の set_qty は remove と同じ。
// 行が他人のものだったり active でない場合は黙って何もしない。
func (u *CartUsecase) UpdateCart(ctx context.Context, customerID int64, cartID int64, action CartUpdateAction, qty int64) error {
	if customerID <= 0 {
		return NewError(KindInvalidInput, "invalid customer")
	}
	if cartID <= 0 {
		return NewError(KindInvalidInput, "invalid cart_id")
	}

	switch action {
	case CartActionRemove:
		if err := u.lines.Delete(ctx, cartID, customerID); err != nil {
			return NewError(KindInternal, "db error")
		}
		return nil

	case CartActionSetQuantity:
		if qty <= 0 {
			if err := u.lines.Delete(ctx, cartID, customerID); err != nil {
				return NewError(KindInternal, "db error")
			}
			return nil
		}
		if err := u.lines.UpdateQuantity(ctx, cartID, customerID, qty); err != nil {
			return NewError(KindInternal, "db error")
		}
		return nil

	default:
		return NewError(KindInvalidInput, "invalid action")
	}
}
