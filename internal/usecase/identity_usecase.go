package usecase

import (
	"context"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// IdentityUsecase は買い物開始時の顧客解決。
// email / phone のどちらかが一致すれば既存顧客として扱う。
type IdentityUsecase struct {
	customers repo.CustomerRepository
}

func NewIdentityUsecase(customers repo.CustomerRepository) *IdentityUsecase {
	return &IdentityUsecase{customers: customers}
}

type StartSessionInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// StartSession は顧客を引き当てて customerID を返す（無ければ作成）。
func (u *IdentityUsecase) StartSession(ctx context.Context, in StartSessionInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)
	address := strings.TrimSpace(in.Address)

	//全項目必須
	if name == "" || phone == "" || email == "" || address == "" {
		return 0, NewError(KindInvalidInput, "all fields are required")
	}

	customerID, err := u.customers.FindOrCreate(ctx, model.Customer{
		Name:    name,
		Phone:   phone,
		Email:   email,
		Address: address,
	})
	if err != nil {
		return 0, NewError(KindInternal, "db error")
	}

	return customerID, nil
}
