package usecase_test

import (
	"context"
	"sort"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す。
// errs に積んだエラーを先に返すので、直列化失敗からのリトライも再現できる。
type TxManagerMock struct {
	Repos repo.TxRepos
	Errs  []error
	Calls int
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Calls++
	if len(m.Errs) > 0 {
		err := m.Errs[0]
		m.Errs = m.Errs[1:]
		if err != nil {
			return err
		}
	}
	return fn(m.Repos)
}

type TxReposMock struct {
	cartLines repo.CartLineRepository
	inventory repo.InventoryRepository
	orders    repo.OrderRepository
	products  repo.ProductRepository
}

func (r *TxReposMock) CartLines() repo.CartLineRepository  { return r.cartLines }
func (r *TxReposMock) Inventory() repo.InventoryRepository { return r.inventory }
func (r *TxReposMock) Orders() repo.OrderRepository        { return r.orders }
func (r *TxReposMock) Products() repo.ProductRepository    { return r.products }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) FindOrCreate(ctx context.Context, c model.Customer) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CustomerRepoMock) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

// =====================
// Stateful fakes（merge仕様や原子性の検証用）
// =====================

// カート行のインメモリfake。UpsertActiveLine はDB実装と同じ
// 「(customer, product) の active は1行、同一商品は加算」を守る。
type fakeCartLineRepo struct {
	nextID   int64
	lines    map[int64]*model.CartLine
	products map[int64]model.Product // ListActiveWithProduct の結合用

	Deleted   []int64
	MarkedOut []int64
}

func newFakeCartLineRepo() *fakeCartLineRepo {
	return &fakeCartLineRepo{
		nextID:   1,
		lines:    map[int64]*model.CartLine{},
		products: map[int64]model.Product{},
	}
}

func (f *fakeCartLineRepo) addProduct(p model.Product) {
	f.products[p.ID] = p
}

func (f *fakeCartLineRepo) UpsertActiveLine(_ context.Context, customerID, productID, addQty int64) (int64, error) {
	for _, l := range f.lines {
		if l.CustomerID == customerID && l.ProductID == productID && l.Status == model.CartLineStatusActive {
			l.Quantity += addQty
			return l.ID, nil
		}
	}
	id := f.nextID
	f.nextID++
	f.lines[id] = &model.CartLine{
		ID:         id,
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   addQty,
		Status:     model.CartLineStatusActive,
	}
	return id, nil
}

func (f *fakeCartLineRepo) UpdateQuantity(_ context.Context, cartID, customerID, qty int64) error {
	l, ok := f.lines[cartID]
	if !ok || l.CustomerID != customerID || l.Status != model.CartLineStatusActive {
		return nil // no-op
	}
	l.Quantity = qty
	return nil
}

func (f *fakeCartLineRepo) Delete(_ context.Context, cartID, customerID int64) error {
	l, ok := f.lines[cartID]
	if !ok || l.CustomerID != customerID || l.Status != model.CartLineStatusActive {
		return nil // no-op
	}
	delete(f.lines, cartID)
	f.Deleted = append(f.Deleted, cartID)
	return nil
}

func (f *fakeCartLineRepo) ListActiveWithProduct(_ context.Context, customerID int64) ([]repo.ActiveLine, error) {
	out := make([]repo.ActiveLine, 0)
	for _, l := range f.lines {
		if l.CustomerID != customerID || l.Status != model.CartLineStatusActive {
			continue
		}
		out = append(out, repo.ActiveLine{Line: *l, Product: f.products[l.ProductID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Product.Name != out[j].Product.Name {
			return out[i].Product.Name < out[j].Product.Name
		}
		return out[i].Line.ID < out[j].Line.ID
	})
	return out, nil
}

func (f *fakeCartLineRepo) ListActiveForUpdate(_ context.Context, customerID int64) ([]model.CartLine, error) {
	out := make([]model.CartLine, 0)
	for _, l := range f.lines {
		if l.CustomerID == customerID && l.Status == model.CartLineStatusActive {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (f *fakeCartLineRepo) MarkCheckedOut(_ context.Context, lineIDs []int64) error {
	for _, id := range lineIDs {
		if l, ok := f.lines[id]; ok {
			l.Status = model.CartLineStatusCheckedOut
		}
	}
	f.MarkedOut = append(f.MarkedOut, lineIDs...)
	return nil
}

func (f *fakeCartLineRepo) activeCount(customerID int64) int {
	n := 0
	for _, l := range f.lines {
		if l.CustomerID == customerID && l.Status == model.CartLineStatusActive {
			n++
		}
	}
	return n
}

// 在庫のインメモリfake
type fakeInventoryRepo struct {
	products map[int64]*model.Product

	// trueにすると Decrement が必ず ErrNegativeStock を返す（invariant経路の検証用）
	ForceNegative bool

	Decremented map[int64]int64
}

func newFakeInventoryRepo(products ...model.Product) *fakeInventoryRepo {
	f := &fakeInventoryRepo{
		products:    map[int64]*model.Product{},
		Decremented: map[int64]int64{},
	}
	for i := range products {
		p := products[i]
		f.products[p.ID] = &p
	}
	return f
}

func (f *fakeInventoryRepo) GetForUpdate(_ context.Context, productIDs []int64) ([]model.Product, error) {
	ids := make([]int64, len(productIDs))
	copy(ids, productIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeInventoryRepo) Decrement(_ context.Context, productID, qty int64) error {
	if f.ForceNegative {
		return repo.ErrNegativeStock
	}
	p, ok := f.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	if p.StockQty < qty {
		return repo.ErrNegativeStock
	}
	p.StockQty -= qty
	f.Decremented[productID] += qty
	return nil
}

// 注文・支払いのインメモリfake（追記のみ）
type fakeOrderRepo struct {
	nextID   int64
	Orders   map[int64]model.Order
	Payments map[int64]model.Payment // orderIDで引く
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		nextID:   1,
		Orders:   map[int64]model.Order{},
		Payments: map[int64]model.Payment{},
	}
}

func (f *fakeOrderRepo) Create(_ context.Context, order model.Order, payment model.Payment) (int64, error) {
	id := f.nextID
	f.nextID++
	order.ID = id
	payment.OrderID = id
	f.Orders[id] = order
	f.Payments[id] = payment
	return id, nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, orderID int64) (model.Order, error) {
	o, ok := f.Orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) FindPaymentByOrderID(_ context.Context, orderID int64) (model.Payment, error) {
	p, ok := f.Payments[orderID]
	if !ok {
		return model.Payment{}, repo.ErrNotFound
	}
	return p, nil
}

// 支払い参照用の固定IDGenerator
type stubIDGen struct{}

func (g *stubIDGen) NewID() string { return "txn-test-ref" }
