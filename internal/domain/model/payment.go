package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
)

// Orderと1:1。amount は Order.TotalAmount と一致する。
type Payment struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID           int64           `gorm:"not null;uniqueIndex" json:"order_id"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method            string          `gorm:"type:varchar(50);not null" json:"method"`
	TransactionStatus PaymentStatus   `gorm:"type:varchar(20);not null" json:"transaction_status"`
	TransactionRef    string          `gorm:"type:varchar(36);not null" json:"transaction_ref"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
