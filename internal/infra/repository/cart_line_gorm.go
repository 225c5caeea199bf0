package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartLineGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartLineGormRepository(db *gorm.DB) *CartLineGormRepository {
	return &CartLineGormRepository{db: db}
}

// 同一商品は数量加算。FOR UPDATE で既存行を押さえてから読む。
// 同じ (customer, product) の初回追加が同時に走ると、片方のINSERTが
// 部分uniqueインデックス idx_cart_lines_active_customer_product で弾かれる。
// その場合は勝った行が見えるようになっているので、トランザクションごと
// やり直して加算側のパスに乗せる。
func (r *CartLineGormRepository) UpsertActiveLine(ctx context.Context, customerID int64, productID int64, addQty int64) (int64, error) {
	if addQty <= 0 {
		return 0, errors.New("invalid quantity")
	}

	for attempt := 0; ; attempt++ {
		lineID, err := r.upsertActiveLineOnce(ctx, customerID, productID, addQty)
		if err == nil {
			return lineID, nil
		}
		if attempt == 0 && isUniqueViolation(err) {
			continue
		}
		return 0, err
	}
}

func (r *CartLineGormRepository) upsertActiveLineOnce(ctx context.Context, customerID int64, productID int64, addQty int64) (int64, error) {
	var lineID int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line model.CartLine

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("customer_id = ? AND product_id = ? AND status = ?",
				customerID, productID, model.CartLineStatusActive).
			First(&line).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			newQty := line.Quantity + addQty

			res := tx.Model(&model.CartLine{}).
				Where("id = ?", line.ID).
				Update("quantity", newQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}

			lineID = line.ID
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newLine := model.CartLine{
			CustomerID: customerID,
			ProductID:  productID,
			Quantity:   addQty,
			Status:     model.CartLineStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := tx.Create(&newLine).Error; err != nil {
			return err
		}

		lineID = newLine.ID
		return nil
	})

	if err != nil {
		return 0, err
	}
	return lineID, nil
}

// 23505=unique_violation。activeの一意制約に負けた側のINSERT
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// 本人所有かつ active のみ。該当なしは no-op
func (r *CartLineGormRepository) UpdateQuantity(ctx context.Context, cartID int64, customerID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id = ? AND customer_id = ? AND status = ?",
			cartID, customerID, model.CartLineStatusActive).
		Update("quantity", qty)

	return res.Error
}

// 本人所有かつ active のみ。該当なしは no-op
func (r *CartLineGormRepository) Delete(ctx context.Context, cartID int64, customerID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND customer_id = ? AND status = ?",
			cartID, customerID, model.CartLineStatusActive).
		Delete(&model.CartLine{})

	return res.Error
}

// active 明細を商品と結合して返す。商品名順、同名は行ID（追加順）
func (r *CartLineGormRepository) ListActiveWithProduct(ctx context.Context, customerID int64) ([]repo.ActiveLine, error) {
	var lines []model.CartLine
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ?", customerID, model.CartLineStatusActive).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []repo.ActiveLine{}, err
	}
	if len(lines) == 0 {
		return []repo.ActiveLine{}, nil
	}

	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).Error; err != nil {
		return []repo.ActiveLine{}, err
	}

	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]repo.ActiveLine, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			continue
		}
		out = append(out, repo.ActiveLine{Line: l, Product: p})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Product.Name != out[j].Product.Name {
			return out[i].Product.Name < out[j].Product.Name
		}
		return out[i].Line.ID < out[j].Line.ID
	})

	return out, nil
}

// チェックアウト用。product_id 昇順でロックして返す
func (r *CartLineGormRepository) ListActiveForUpdate(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ? AND status = ?", customerID, model.CartLineStatusActive).
		Order("product_id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

// 指定行を checked_out に遷移
func (r *CartLineGormRepository) MarkCheckedOut(ctx context.Context, lineIDs []int64) error {
	if len(lineIDs) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("id IN ? AND status = ?", lineIDs, model.CartLineStatusActive).
		Update("status", model.CartLineStatusCheckedOut)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(lineIDs)) {
		// ロック下で取った行が消えている＝異常
		return repo.ErrNotFound
	}
	return nil
}
