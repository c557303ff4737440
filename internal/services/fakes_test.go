package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/repositories"
)

// fakeOrderRepo is an in-memory OrderRepository. The knobs mimic the failure
// classes the service must survive: code collisions and a failing line insert.
type fakeOrderRepo struct {
	mu        sync.Mutex
	nextID    int64
	orders    map[int64]*models.Order
	lines     map[int64][]models.OrderLine
	codes     map[string]bool
	updatedAt time.Time

	dupOnNextInserts int  // fail this many header inserts with ErrDuplicateKey
	failLineInsert   bool // fail every line insert
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[int64]*models.Order{},
		lines:  map[int64][]models.OrderLine{},
		codes:  map[string]bool{},
	}
}

func (f *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dupOnNextInserts > 0 {
		f.dupOnNextInserts--
		return 0, fmt.Errorf("%w: order code '%s'", repositories.ErrDuplicateKey, order.Code)
	}
	if f.codes[order.Code] {
		return 0, fmt.Errorf("%w: order code '%s'", repositories.ErrDuplicateKey, order.Code)
	}
	f.nextID++
	order.ID = f.nextID
	stored := *order
	stored.Lines = nil
	f.orders[order.ID] = &stored
	f.codes[order.Code] = true
	f.updatedAt = order.UpdatedAt
	return order.ID, nil
}

func (f *fakeOrderRepo) CreateOrderLine(_ repositories.SQLExecutor, line *models.OrderLine) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLineInsert {
		return 0, fmt.Errorf("%w: inserting order line", repositories.ErrDatabaseError)
	}
	if _, ok := f.orders[line.OrderID]; !ok {
		return 0, repositories.ErrNotFound
	}
	line.ID = int64(len(f.lines[line.OrderID]) + 1)
	f.lines[line.OrderID] = append(f.lines[line.OrderID], *line)
	return line.ID, nil
}

func (f *fakeOrderRepo) GetOrderByID(orderID int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) GetOrderByCode(code string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if order.Code == code {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := []models.Order{}
	for _, order := range f.orders {
		if filters.Status != nil && *filters.Status != "" && order.Status != *filters.Status {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetOrderLinesByOrderID(orderID int64) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderLine{}, f.lines[orderID]...), nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	order.Status = newStatus
	order.UpdatedAt = updatedAt
	f.updatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) DeleteOrder(_ repositories.SQLExecutor, orderID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[orderID]; !ok {
		return 0, nil
	}
	delete(f.orders, orderID)
	delete(f.lines, orderID)
	return 1, nil
}

func (f *fakeOrderRepo) LastUpdated() (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedAt, nil
}

// fakeSessionRepo is an in-memory SessionRepository enforcing the same two
// uniqueness rules as the schema: unique codes and a single open session.
type fakeSessionRepo struct {
	mu       sync.Mutex
	nextID   int64
	sessions []*models.OrderSession
	codes    map[string]bool

	dupOnNextInserts int // fail this many inserts with ErrDuplicateKey
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{codes: map[string]bool{}}
}

func (f *fakeSessionRepo) GetActive() (*models.OrderSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ClosedAt == nil {
			copied := *s
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeSessionRepo) Insert(_ repositories.SQLExecutor, session *models.OrderSession) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dupOnNextInserts > 0 {
		f.dupOnNextInserts--
		return 0, fmt.Errorf("%w: forced collision", repositories.ErrDuplicateKey)
	}
	if f.codes[session.Code] {
		return 0, fmt.Errorf("%w: session code '%s'", repositories.ErrDuplicateKey, session.Code)
	}
	for _, s := range f.sessions {
		if s.ClosedAt == nil {
			return 0, fmt.Errorf("%w: open-session slot taken", repositories.ErrDuplicateKey)
		}
	}
	f.nextID++
	session.ID = f.nextID
	stored := *session
	f.sessions = append(f.sessions, &stored)
	f.codes[session.Code] = true
	return session.ID, nil
}

func (f *fakeSessionRepo) Close(_ repositories.SQLExecutor, sessionID int64, closedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == sessionID && s.ClosedAt == nil {
			t := closedAt
			s.ClosedAt = &t
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeSessionRepo) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.ClosedAt == nil {
			n++
		}
	}
	return n
}

// fakeCatalog serves a fixed snapshot. Only the methods the order pipeline
// touches are implemented; the embedded interface panics on anything else.
type fakeCatalog struct {
	CatalogService
	snapshot *models.CatalogSnapshot
}

func (f *fakeCatalog) Snapshot() (*models.CatalogSnapshot, error) {
	return f.snapshot, nil
}
