package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

// email か phone が一致する顧客を探し、無ければ作成
func (r *CustomerGormRepository) FindOrCreate(ctx context.Context, c model.Customer) (int64, error) {
	var customerID int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Customer

		findErr := tx.
			Where("email = ? OR phone = ?", c.Email, c.Phone).
			First(&existing).Error

		if findErr == nil {
			customerID = existing.ID
			return nil
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if err := tx.Create(&c).Error; err != nil {
			// 同時に同じ顧客が作られた場合はもう一度探す
			retryErr := tx.
				Where("email = ? OR phone = ?", c.Email, c.Phone).
				First(&existing).Error
			if retryErr == nil {
				customerID = existing.ID
				return nil
			}
			return err
		}

		customerID = c.ID
		return nil
	})

	if err != nil {
		return 0, err
	}
	return customerID, nil
}

func (r *CustomerGormRepository) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("id = ?", customerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Customer{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}
