package usecase

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindInvalidInput       ErrorKind = "invalid_input"
	KindProductUnavailable ErrorKind = "product_unavailable"
	KindInsufficientStock  ErrorKind = "insufficient_stock"
	KindEmptyCart          ErrorKind = "empty_cart"
	KindConflict           ErrorKind = "conflict"
	KindUnavailable        ErrorKind = "unavailable"
	KindInternal           ErrorKind = "internal"
)

// Usecase層のエラー。HTTPへの変換はhandler側（writeError）で行う。
type Error struct {
	Kind    ErrorKind
	Message string

	// InsufficientStock のときだけ、不足した商品のidが入る
	ProductIDs []int64
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func NewInsufficientStock(productIDs []int64) error {
	return &Error{
		Kind:       KindInsufficientStock,
		Message:    "insufficient stock",
		ProductIDs: productIDs,
	}
}

func AsUsecaseError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}
