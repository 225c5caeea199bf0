package repository

import (
	"context"
	"errors"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// id 昇順でロックする。複数商品を触るトランザクション同士で順序を揃え、
// デッドロックを「abort して retry」の範囲に抑える。
func (r *InventoryGormRepository) GetForUpdate(ctx context.Context, productIDs []int64) ([]model.Product, error) {
	if len(productIDs) == 0 {
		return []model.Product{}, nil
	}

	ids := make([]int64, len(productIDs))
	copy(ids, productIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var products []model.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id asc").
		Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 在庫が足りるときだけ減算。不足は検証済みのはずなので ErrNegativeStock はバグの兆候
func (r *InventoryGormRepository) Decrement(ctx context.Context, productID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock_qty >= ?", productID, qty).
		Update("stock_qty", gorm.Expr("stock_qty - ?", qty))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var p model.Product
		err := r.db.WithContext(ctx).Where("id = ?", productID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrNotFound
		}
		if err != nil {
			return err
		}
		return repo.ErrNegativeStock
	}
	return nil
}
