package model

import "time"

type CartLineStatus string

const (
	CartLineStatusActive     CartLineStatus = "active"
	CartLineStatusCheckedOut CartLineStatus = "checked_out"
)

// (customer_id, product_id) につき active は最大1行。
// db.Migrate が張る部分uniqueインデックス（status = 'active' のみ対象）が
// これをDB側で強制する。checked_out になった行は注文の履歴として残し、
// 以後変更しない。
type CartLine struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64          `gorm:"not null;index:idx_cart_lines_customer_status" json:"customer_id"`
	ProductID  int64          `gorm:"not null;index" json:"product_id"`
	Quantity   int64          `gorm:"not null" json:"quantity"`
	Status     CartLineStatus `gorm:"type:varchar(20);not null;index:idx_cart_lines_customer_status" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
