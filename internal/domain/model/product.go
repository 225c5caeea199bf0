package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// in_stock は stock_qty とは独立した販売フラグ。
// 在庫が残っていても in_stock=false で販売停止にできる。
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Brand     string          `gorm:"type:varchar(255)" json:"brand"`
	Category  string          `gorm:"type:varchar(100);index" json:"category"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	StockQty  int64           `gorm:"not null" json:"stock_qty"`
	InStock   bool            `gorm:"not null;default:true" json:"in_stock"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
