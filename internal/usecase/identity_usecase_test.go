package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartSession_RequiresAllFields(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.StartSessionInput
	}{
		{"名前なし", usecase.StartSessionInput{Phone: "090-0000-0000", Email: "a@example.com", Address: "Tokyo"}},
		{"電話なし", usecase.StartSessionInput{Name: "Sato", Email: "a@example.com", Address: "Tokyo"}},
		{"メールなし", usecase.StartSessionInput{Name: "Sato", Phone: "090-0000-0000", Address: "Tokyo"}},
		{"住所なし", usecase.StartSessionInput{Name: "Sato", Phone: "090-0000-0000", Email: "a@example.com"}},
		{"空白のみ", usecase.StartSessionInput{Name: "  ", Phone: "090-0000-0000", Email: "a@example.com", Address: "Tokyo"}},
	}

	customers := &CustomerRepoMock{}
	uc := usecase.NewIdentityUsecase(customers)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.StartSession(context.Background(), tt.in)

			ue, ok := usecase.AsUsecaseError(err)
			require.True(t, ok)
			assert.Equal(t, usecase.KindInvalidInput, ue.Kind)
		})
	}
	customers.AssertNotCalled(t, "FindOrCreate", mock.Anything, mock.Anything)
}

func TestStartSession_TrimsAndResolvesCustomer(t *testing.T) {
	customers := &CustomerRepoMock{}
	customers.On("FindOrCreate", mock.Anything, model.Customer{
		Name:    "Sato",
		Phone:   "090-0000-0000",
		Email:   "a@example.com",
		Address: "Tokyo",
	}).Return(int64(7), nil)
	uc := usecase.NewIdentityUsecase(customers)

	id, err := uc.StartSession(context.Background(), usecase.StartSessionInput{
		Name:    "  Sato ",
		Phone:   "090-0000-0000",
		Email:   " a@example.com",
		Address: "Tokyo ",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	customers.AssertExpectations(t)
}
