package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

// total_amount はチェックアウト時点の snapshot。後から商品価格が変わっても再計算しない。
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID  int64           `gorm:"not null;index" json:"customer_id"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
