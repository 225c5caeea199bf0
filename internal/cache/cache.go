package cache

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// 商品一覧のキャッシュ。表示用なので、在庫と販売可否の正は常にDB側。
type ProductCache interface {
	Get(ctx context.Context) ([]model.Product, error)
	Set(ctx context.Context, products []model.Product) error
}

var ErrCacheMiss = errors.New("cache miss")
