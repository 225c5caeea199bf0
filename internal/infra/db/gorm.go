package db

import (
	"fmt"

	"app/internal/config"
	"app/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
// statement_timeout を張るので、ロック待ちが無限に続くことはない。
func Connect(cfg config.Config) (*gorm.DB, error) {
	// DATABASE_URL があれば最優先で使う
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s options='-c statement_timeout=%d'",
		cfg.PostgresHost, cfg.PostgresPort,
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB,
		cfg.PostgresSSLMode, cfg.StatementTimeoutMS,
	)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// Migrate はスキーマを揃える。
// AutoMigrate では張れない部分uniqueインデックスもここで張る。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Customer{},
		&model.Product{},
		&model.CartLine{},
		&model.Order{},
		&model.Payment{},
	); err != nil {
		return err
	}

	// (customer_id, product_id) の active 行を最大1行に制限する。
	// checked_out は履歴なので何行でもよい。
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_active_customer_product
		 ON cart_lines (customer_id, product_id)
		 WHERE status = 'active'`,
	).Error
}
