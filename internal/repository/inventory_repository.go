package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// 検証済みのはずの減算が在庫不足になった（ロック漏れ等のバグ）
var ErrNegativeStock = errors.New("stock would go negative")

// 在庫の正はここだけ。Decrement を呼べるのはチェックアウトのみ。
type InventoryRepository interface {
	// id 昇順で行ロックして返す（ロック順を全トランザクションで揃える）
	GetForUpdate(ctx context.Context, productIDs []int64) ([]model.Product, error)

	// stock_qty >= qty のときだけ減算。不足なら ErrNegativeStock。
	Decrement(ctx context.Context, productID int64, qty int64) error
}
