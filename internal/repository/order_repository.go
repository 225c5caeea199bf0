package repository

import (
	"app/internal/domain/model"
	"context"
)

// 追記専用。更新・削除のAPIは持たない。
type OrderRepository interface {
	// Order と Payment を同一の原子単位で作成し、order id を返す。
	// Payment の無い Order が観測されることはない。
	Create(ctx context.Context, order model.Order, payment model.Payment) (int64, error)

	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindPaymentByOrderID(ctx context.Context, orderID int64) (model.Payment, error)
}
