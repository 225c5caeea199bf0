package repository

import (
	"app/internal/domain/model"
	"context"
)

type CustomerRepository interface {
	// email または phone が一致する既存顧客を返し、無ければ作成する
	FindOrCreate(ctx context.Context, c model.Customer) (int64, error)

	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
}
