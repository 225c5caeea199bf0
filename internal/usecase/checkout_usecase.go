package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/metrics"
	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// 直列化失敗のリトライ上限。超えたら Unavailable として返す
const checkoutMaxAttempts = 3

const checkoutRetryBackoff = 25 * time.Millisecond

type IDGenerator interface {
	NewID() string
}

// CheckoutUsecase はカートを注文に変える状態機械です。
// 1トランザクションで、行ロック→再検証→checked_out遷移→Order+Payment作成→在庫減算まで行い、
// 途中で失敗したら全部ロールバックします。
type CheckoutUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	idGen  IDGenerator
	met    *metrics.CheckoutMetrics
	log    *log.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	idGen IDGenerator,
	met *metrics.CheckoutMetrics,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:     tx,
		orders: orders,
		idGen:  idGen,
		met:    met,
		log:    log.New("checkout"),
	}
}

// Checkout はカートの active 明細をまとめて1件の注文に確定し、orderID を返す。
// 直列化失敗（同じ商品を取り合った場合）は内部でリトライし、呼び出し側には見せない。
func (u *CheckoutUsecase) Checkout(ctx context.Context, customerID int64, paymentMethod string) (int64, error) {
	if customerID <= 0 {
		return 0, NewError(KindInvalidInput, "invalid customer")
	}

	method := strings.TrimSpace(paymentMethod)
	if method == "" {
		method = "cash"
	}

	start := time.Now()

	var orderID int64
	var err error

	for attempt := 1; attempt <= checkoutMaxAttempts; attempt++ {
		orderID, err = u.checkoutOnce(ctx, customerID, method)
		if err == nil {
			u.met.ObserveCompleted(time.Since(start))
			return orderID, nil
		}

		// 業務上のabort（空カート・在庫不足など）はそのまま返す
		if ue, ok := AsUsecaseError(err); ok {
			u.met.ObserveAborted(string(ue.Kind), time.Since(start))
			return 0, err
		}

		if !isSerializationFailure(err) {
			break
		}

		u.log.Warnf("checkout conflict, retrying: customer_id=%d attempt=%d", customerID, attempt)
		select {
		case <-ctx.Done():
			u.met.ObserveAborted(string(KindUnavailable), time.Since(start))
			return 0, NewError(KindUnavailable, "store unavailable")
		case <-time.After(checkoutRetryBackoff):
		}
	}

	// リトライ切れ・タイムアウト・接続断はまとめて Unavailable
	u.log.Errorf("checkout failed: customer_id=%d err=%v", customerID, err)
	u.met.ObserveAborted(string(KindUnavailable), time.Since(start))
	return 0, NewError(KindUnavailable, "store unavailable")
}

// 1回分のチェックアウト。全手順を同一トランザクションで行う
func (u *CheckoutUsecase) checkoutOnce(ctx context.Context, customerID int64, method string) (int64, error) {
	var orderID int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// active 明細を product_id 順にロック
		lines, err := r.CartLines().ListActiveForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return NewError(KindEmptyCart, "cart is empty")
		}

		productIDs := make([]int64, 0, len(lines))
		for _, l := range lines {
			productIDs = append(productIDs, l.ProductID)
		}

		// 商品行もロックして在庫の正を読む
		products, err := r.Inventory().GetForUpdate(ctx, productIDs)
		if err != nil {
			return err
		}

		byID := make(map[int64]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		// ロック下で再検証。1件でも超過なら全体をabort（部分確定はしない）
		var short []int64
		for _, l := range lines {
			p, ok := byID[l.ProductID]
			if !ok {
				return NewError(KindNotFound, "product not found")
			}
			if !p.InStock || l.Quantity > p.StockQty {
				short = append(short, l.ProductID)
			}
		}
		if len(short) > 0 {
			return NewInsufficientStock(short)
		}

		// 合計はdecimalで確定（以後、商品価格が変わっても再計算しない）
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(byID[l.ProductID].Price.Mul(decimal.NewFromInt(l.Quantity)))
		}

		lineIDs := make([]int64, 0, len(lines))
		for _, l := range lines {
			lineIDs = append(lineIDs, l.ID)
		}

		if err := r.CartLines().MarkCheckedOut(ctx, lineIDs); err != nil {
			return err
		}

		now := time.Now()
		id, err := r.Orders().Create(ctx,
			model.Order{
				CustomerID:  customerID,
				Status:      model.OrderStatusCompleted,
				TotalAmount: total,
				CreatedAt:   now,
			},
			model.Payment{
				Amount:            total,
				Method:            method,
				TransactionStatus: model.PaymentStatusSuccess,
				TransactionRef:    u.idGen.NewID(),
				CreatedAt:         now,
			},
		)
		if err != nil {
			return err
		}

		// 在庫減算は checked_out 遷移と同一トランザクション。
		// 片方だけ起きることはない。
		for _, l := range lines {
			if err := r.Inventory().Decrement(ctx, l.ProductID, l.Quantity); err != nil {
				if errors.Is(err, repo.ErrNegativeStock) {
					// 検証済みなので到達したらロック漏れのバグ
					u.log.Errorf("negative stock blocked: product_id=%d qty=%d customer_id=%d",
						l.ProductID, l.Quantity, customerID)
					return NewError(KindInternal, "internal error")
				}
				return err
			}
		}

		orderID = id
		return nil
	})

	if err != nil {
		return 0, err
	}
	return orderID, nil
}

type OrderConfirmation struct {
	OrderID     int64           `json:"order_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	Payment     PaymentView     `json:"payment"`
}

type PaymentView struct {
	Amount            decimal.Decimal `json:"amount"`
	Method            string          `json:"method"`
	TransactionStatus string          `json:"transaction_status"`
	TransactionRef    string          `json:"transaction_ref"`
}

// GetOrderConfirmation は確定済み注文の要約を返す。
func (u *CheckoutUsecase) GetOrderConfirmation(ctx context.Context, orderID int64) (OrderConfirmation, error) {
	if orderID <= 0 {
		return OrderConfirmation{}, NewError(KindInvalidInput, "invalid order_id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderConfirmation{}, NewError(KindNotFound, "order not found")
	}
	if err != nil {
		return OrderConfirmation{}, NewError(KindInternal, "db error")
	}

	pay, err := u.orders.FindPaymentByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		// Payment の無い Order は作れないはず
		u.log.Errorf("order without payment: order_id=%d", orderID)
		return OrderConfirmation{}, NewError(KindInternal, "internal error")
	}
	if err != nil {
		return OrderConfirmation{}, NewError(KindInternal, "db error")
	}

	return OrderConfirmation{
		OrderID:     o.ID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Payment: PaymentView{
			Amount:            pay.Amount,
			Method:            pay.Method,
			TransactionStatus: string(pay.TransactionStatus),
			TransactionRef:    pay.TransactionRef,
		},
	}, nil
}

// 40001=serialization_failure / 40P01=deadlock_detected はリトライで解決しうる
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
