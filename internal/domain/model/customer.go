package model

import "time"

// email / phone のどちらでも同一顧客を引けるようにする
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null;uniqueIndex" json:"phone"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
