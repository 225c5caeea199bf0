package repository

import (
	"app/internal/domain/model"
	"context"
)

// ListActiveWithProduct の1行分（明細＋現在の商品情報）
type ActiveLine struct {
	Line    model.CartLine
	Product model.Product
}

type CartLineRepository interface {
	// 同一 (customer, product) の active 行があれば数量を加算、無ければ新規作成。
	// read-modify-write は行ロックで直列化する。行IDを返す。
	UpsertActiveLine(ctx context.Context, customerID int64, productID int64, addQty int64) (int64, error)

	// 本人所有かつ active の行だけ更新。該当が無ければ何もしない。
	UpdateQuantity(ctx context.Context, cartID int64, customerID int64, qty int64) error

	// 本人所有かつ active の行だけ削除。該当が無ければ何もしない。
	Delete(ctx context.Context, cartID int64, customerID int64) error

	// active 明細を商品と結合して返す。商品名順、同名は追加順。
	ListActiveWithProduct(ctx context.Context, customerID int64) ([]ActiveLine, error)

	// active 明細を product_id 昇順で行ロックして返す（チェックアウト用）
	ListActiveForUpdate(ctx context.Context, customerID int64) ([]model.CartLine, error)

	// 指定行を checked_out に遷移させる
	MarkCheckedOut(ctx context.Context, lineIDs []int64) error
}
