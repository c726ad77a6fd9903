package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"ec-checkout/internal/domain/model"
	repo "ec-checkout/internal/repository"

	"github.com/shopspring/decimal"
)

// memStore はトランザクション付きのインメモリ実装。
// WithinTx は状態を複製して fn に渡し、nil のときだけ書き戻す。
type memStore struct {
	mu    sync.Mutex
	state *memState

	// n回目（1始まり）の注文明細作成を失敗させる。0なら失敗しない
	failOrderItemAt int
	failAudit       error
	failUsers       error
	failProducts    error
	// 注文作成時、同じキーの注文を別txが先にcommitした状況を作る
	racingOrder *model.Order

	priceLookups int
}

type cartKey struct {
	userID    int64
	productID int64
}

type memState struct {
	users      map[string]int64
	prices     map[int64]decimal.Decimal
	cart       map[cartKey]model.CartItem
	orders     map[int64]model.Order
	orderItems map[int64]model.OrderItem
	audits     []model.AuditLog
	nextOrder  int64
	nextItem   int64
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		users:      map[string]int64{},
		prices:     map[int64]decimal.Decimal{},
		cart:       map[cartKey]model.CartItem{},
		orders:     map[int64]model.Order{},
		orderItems: map[int64]model.OrderItem{},
	}}
}

func (s *memState) clone() *memState {
	c := &memState{
		users:      make(map[string]int64, len(s.users)),
		prices:     make(map[int64]decimal.Decimal, len(s.prices)),
		cart:       make(map[cartKey]model.CartItem, len(s.cart)),
		orders:     make(map[int64]model.Order, len(s.orders)),
		orderItems: make(map[int64]model.OrderItem, len(s.orderItems)),
		audits:     append([]model.AuditLog(nil), s.audits...),
		nextOrder:  s.nextOrder,
		nextItem:   s.nextItem,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.cart {
		c.cart[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.orderItems {
		c.orderItems[k] = v
	}
	return c
}

// --- seed / inspect ---

func (m *memStore) addUser(name string, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.users[name] = id
}

func (m *memStore) setPrice(productID int64, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.prices[productID] = decimal.RequireFromString(price)
}

func (m *memStore) putCartItem(it model.CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.cart[cartKey{it.UserID, it.ProductID}] = it
}

func (m *memStore) cartOf(userID int64) []model.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return listCart(m.state, userID)
}

func (m *memStore) counts() (orders, orderItems, audits int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.state.orders), len(m.state.orderItems), len(m.state.audits)
}

func (m *memStore) auditLogs() []model.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AuditLog(nil), m.state.audits...)
}

func listCart(s *memState, userID int64) []model.CartItem {
	out := []model.CartItem{}
	for k, v := range s.cart {
		if k.userID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// --- UserRepository ---

func (m *memStore) FindIDByUsername(_ context.Context, username string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUsers != nil {
		return 0, false, m.failUsers
	}
	id, ok := m.state.users[username]
	return id, ok, nil
}

// --- TransactionManager ---

func (m *memStore) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{store: m, s: m.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	m.state = tx.s
	return nil
}

type memTx struct {
	store *memStore
	s     *memState

	orderItemCreates int
}

func (t *memTx) Orders() repo.OrderRepository         { return memOrders{t} }
func (t *memTx) OrderItems() repo.OrderItemRepository { return memOrderItems{t} }
func (t *memTx) CartItems() repo.CartItemRepository   { return memCartItems{t} }
func (t *memTx) Products() repo.ProductRepository     { return memProducts{t} }
func (t *memTx) AuditLogs() repo.AuditLogRepository   { return memAudits{t} }

type memProducts struct{ t *memTx }

func (p memProducts) FindPrice(_ context.Context, productID int64) (decimal.Decimal, bool, error) {
	p.t.store.priceLookups++
	if p.t.store.failProducts != nil {
		return decimal.Zero, false, p.t.store.failProducts
	}
	price, ok := p.t.s.prices[productID]
	return price, ok, nil
}

type memCartItems struct{ t *memTx }

func (c memCartItems) ListByUserID(_ context.Context, userID int64) ([]model.CartItem, error) {
	return listCart(c.t.s, userID), nil
}

func (c memCartItems) InsertIfAbsent(_ context.Context, item model.CartItem) (model.CartItem, bool, error) {
	k := cartKey{item.UserID, item.ProductID}
	if existing, ok := c.t.s.cart[k]; ok {
		return existing, false, nil
	}
	c.t.s.cart[k] = item
	return item, true, nil
}

func (c memCartItems) FindForUpdate(_ context.Context, userID, productID int64) (model.CartItem, error) {
	it, ok := c.t.s.cart[cartKey{userID, productID}]
	if !ok {
		return model.CartItem{}, repo.ErrNotFound
	}
	return it, nil
}

func (c memCartItems) Update(_ context.Context, item model.CartItem) error {
	k := cartKey{item.UserID, item.ProductID}
	if _, ok := c.t.s.cart[k]; !ok {
		return repo.ErrNotFound
	}
	if item.Quantity <= 0 {
		return errors.New("check constraint: quantity > 0")
	}
	c.t.s.cart[k] = item
	return nil
}

func (c memCartItems) Delete(_ context.Context, userID, productID int64) (bool, error) {
	k := cartKey{userID, productID}
	if _, ok := c.t.s.cart[k]; !ok {
		return false, nil
	}
	delete(c.t.s.cart, k)
	return true, nil
}

func (c memCartItems) DeleteProducts(_ context.Context, userID int64, productIDs []int64) (int64, error) {
	var n int64
	for _, pid := range productIDs {
		k := cartKey{userID, pid}
		if _, ok := c.t.s.cart[k]; ok {
			delete(c.t.s.cart, k)
			n++
		}
	}
	return n, nil
}

func (c memCartItems) DeleteAllByUserID(_ context.Context, userID int64) (int64, error) {
	var n int64
	for k := range c.t.s.cart {
		if k.userID == userID {
			delete(c.t.s.cart, k)
			n++
		}
	}
	return n, nil
}

type memOrders struct{ t *memTx }

func (o memOrders) Create(_ context.Context, order model.Order) (int64, error) {
	if race := o.t.store.racingOrder; race != nil && order.IdempotencyKey != nil {
		// 別txが先にcommitした
		base := o.t.store.state
		base.nextOrder++
		r := *race
		r.ID = base.nextOrder
		base.orders[r.ID] = r
		o.t.store.racingOrder = nil
		return 0, fmt.Errorf("%w: uq_orders_user_idempotency_key", repo.ErrConflict)
	}
	for _, existing := range o.t.s.orders {
		if order.IdempotencyKey != nil && existing.IdempotencyKey != nil &&
			existing.UserID == order.UserID && *existing.IdempotencyKey == *order.IdempotencyKey {
			return 0, repo.ErrConflict
		}
	}
	o.t.s.nextOrder++
	order.ID = o.t.s.nextOrder
	o.t.s.orders[order.ID] = order
	return order.ID, nil
}

func (o memOrders) FindByID(_ context.Context, orderID int64) (model.Order, error) {
	ord, ok := o.t.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return ord, nil
}

func (o memOrders) FindByIdempotencyKey(_ context.Context, userID int64, key string) (model.Order, bool, error) {
	for _, ord := range o.t.s.orders {
		if ord.UserID == userID && ord.IdempotencyKey != nil && *ord.IdempotencyKey == key {
			return ord, true, nil
		}
	}
	return model.Order{}, false, nil
}

type memOrderItems struct{ t *memTx }

func (oi memOrderItems) Create(_ context.Context, item model.OrderItem) (int64, error) {
	oi.t.orderItemCreates++
	if at := oi.t.store.failOrderItemAt; at > 0 && oi.t.orderItemCreates == at {
		return 0, errors.New("insert order_items: connection reset")
	}
	if _, ok := oi.t.s.orders[item.OrderID]; !ok {
		return 0, errors.New("foreign key violation")
	}
	oi.t.s.nextItem++
	item.ID = oi.t.s.nextItem
	oi.t.s.orderItems[item.ID] = item
	return item.ID, nil
}

func (oi memOrderItems) ListByOrderID(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	for _, it := range oi.t.s.orderItems {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memAudits struct{ t *memTx }

func (a memAudits) Create(_ context.Context, log model.AuditLog) error {
	if a.t.store.failAudit != nil {
		return a.t.store.failAudit
	}
	log.ID = int64(len(a.t.s.audits) + 1)
	a.t.s.audits = append(a.t.s.audits, log)
	return nil
}
