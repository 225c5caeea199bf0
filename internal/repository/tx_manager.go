package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	CartLines() CartLineRepository
	Inventory() InventoryRepository
	Orders() OrderRepository
	Products() ProductRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fn がエラーを返したら全体をロールバックする。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
