package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品カタログの取得だけを約束。
type ProductRepository interface {
	// カテゴリ→商品名の順で全件
	ListPublic(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
