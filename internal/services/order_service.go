package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/pricing"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/repositories"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/tableauth"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"
)

// Cart bounds. Quantities are small because a walk-up cart is a round of
// drinks, not wholesale; the line cap bounds ticket length and abuse.
const (
	MinLineQuantity  = 1
	MaxLineQuantity  = 30
	MaxCartLines     = 50
	MaxLineNoteLen   = 160
	codeRetryAttempt = 4
	orderCodePrefix  = "ORD"
)

// --- Order DTOs ---

// CartLineRequest is one drink entry of a submitted cart.
type CartLineRequest struct {
	DrinkID  int64  `json:"drink_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Note     string `json:"note"`
}

// CreateOrderRequest is a cart submission. Table and Sig carry the optional
// table-origin claim from a scanned QR link.
type CreateOrderRequest struct {
	Lines         []CartLineRequest `json:"lines" binding:"required"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	Note          string            `json:"note"`
	Table         string            `json:"table"`
	Signature     string            `json:"sig"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderList is the result of a conditional list refresh. Changed is false
// when nothing moved past the caller's watermark; Orders is nil in that case.
type OrderList struct {
	Orders    []models.Order `json:"orders,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
	Changed   bool           `json:"changed"`
}

// --- OrderService Interface ---

// OrderService owns the order lifecycle: cart validation, snapshot pricing,
// atomic persistence, source classification and the forward-only status
// machine.
type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters, since *time.Time) (*OrderList, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	sessionRepo   repositories.SessionRepository
	catalog       CatalogService
	authenticator *tableauth.Authenticator
	db            *sql.DB
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	sr repositories.SessionRepository,
	cs CatalogService,
	auth *tableauth.Authenticator,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:     or,
		sessionRepo:   sr,
		catalog:       cs,
		authenticator: auth,
		db:            db,
	}
}

// mergedLine is a cart line after identical (drink, note) entries have been
// combined, carrying the resolved drink for pricing.
type mergedLine struct {
	drink    models.Drink
	quantity int
	note     string
}

// validateAndMergeCart checks the raw cart lines against the bounds and the
// publicly visible catalog, then merges entries with identical drink and note
// by summing quantities. Pricing happens after the merge so a split entry
// costs exactly the same as a combined one.
func (s *orderService) validateAndMergeCart(lines []CartLineRequest, snapshot *models.CatalogSnapshot) ([]mergedLine, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	if len(lines) > MaxCartLines {
		return nil, fmt.Errorf("%w: cart has %d lines, at most %d allowed", ErrValidation, len(lines), MaxCartLines)
	}

	type lineKey struct {
		drinkID int64
		note    string
	}
	merged := []mergedLine{}
	index := map[lineKey]int{}

	for _, line := range lines {
		if line.Quantity < MinLineQuantity || line.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w: quantity %d for drink %d out of range %d..%d",
				ErrValidation, line.Quantity, line.DrinkID, MinLineQuantity, MaxLineQuantity)
		}
		note := strings.TrimSpace(line.Note)
		if len(note) > MaxLineNoteLen {
			return nil, fmt.Errorf("%w: line note longer than %d characters", ErrValidation, MaxLineNoteLen)
		}
		drink := snapshot.DrinkByID(line.DrinkID)
		if drink == nil || !drink.IsPublic {
			return nil, fmt.Errorf("%w: drink %d is not on the menu", ErrValidation, line.DrinkID)
		}

		key := lineKey{drinkID: line.DrinkID, note: note}
		if i, ok := index[key]; ok {
			merged[i].quantity += line.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, mergedLine{drink: *drink, quantity: line.Quantity, note: note})
	}
	return merged, nil
}

// CreateOrder validates and prices a cart against one catalog snapshot and
// persists the order with its lines. Unit prices are locked in here — later
// catalog changes never touch an existing order.
func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	snapshot, err := s.catalog.Snapshot()
	if err != nil {
		return nil, err
	}

	merged, err := s.validateAndMergeCart(req.Lines, snapshot)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		CustomerName:  utils.NewNullString(req.CustomerName),
		CustomerPhone: utils.NewNullString(req.CustomerPhone),
		Note:          utils.NewNullString(req.Note),
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	source, tableCode := s.authenticator.Classify(req.Table, req.Signature)
	order.Source = source
	if source == models.SourceVerifiedTable {
		order.TableCode = &tableCode
		// Table ordering only runs while a service session is open; the
		// counter channel takes orders at any time.
		if _, err := s.sessionRepo.GetActive(); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: table ordering is closed, no open session", ErrValidation)
			}
			return nil, fmt.Errorf("failed to check active session: %w", err)
		}
	}

	var subtotal float64
	for _, m := range merged {
		unitPrice := pricing.Round2(pricing.SelectPublicPrice(m.drink, snapshot.Ingredients, snapshot.Settings))
		lineTotal := pricing.Round2(float64(m.quantity) * unitPrice)
		subtotal += lineTotal
		order.Lines = append(order.Lines, models.OrderLine{
			DrinkName: m.drink.Name,
			Quantity:  m.quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
			Note:      utils.NewNullString(m.note),
		})
	}
	order.Subtotal = pricing.Round2(subtotal)
	if order.Subtotal <= 0 {
		return nil, fmt.Errorf("%w: order subtotal must be positive", ErrValidation)
	}

	// Header insert with bounded code-collision retry. The insert runs in its
	// own statement (not a surrounding transaction) because a unique
	// violation would poison an open Postgres transaction and forbid the
	// retry; atomicity of header+lines is restored by the compensating
	// delete below.
	var headerErr error
	for attempt := 0; attempt < codeRetryAttempt; attempt++ {
		order.Code = utils.GenerateCode(orderCodePrefix, now)
		_, headerErr = s.orderRepo.CreateOrder(s.db, order)
		if headerErr == nil {
			break
		}
		if !errors.Is(headerErr, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to create order record: %w", headerErr)
		}
	}
	if headerErr != nil {
		return nil, fmt.Errorf("%w: generating a unique order code failed after %d attempts", ErrConflict, codeRetryAttempt)
	}

	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		if _, err := s.orderRepo.CreateOrderLine(s.db, &order.Lines[i]); err != nil {
			// Never leave a header without lines: compensate, then surface.
			if _, delErr := s.orderRepo.DeleteOrder(s.db, order.ID); delErr != nil {
				utils.LogError(delErr, "CreateOrder: compensating delete failed")
			}
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}
	}

	return order, nil
}

// GetOrders lists orders, optionally filtered by status. With a watermark the
// call degrades to a cheap "anything newer?" check: when the latest
// updated_at is not after since (ties included), no payload is loaded.
func (s *orderService) GetOrders(filters models.OrderFilters, since *time.Time) (*OrderList, error) {
	latest, err := s.orderRepo.LastUpdated()
	if err != nil {
		return nil, fmt.Errorf("failed to get order watermark: %w", err)
	}
	if since != nil && !latest.After(*since) {
		return &OrderList{UpdatedAt: latest, Changed: false}, nil
	}

	if filters.Status != nil && *filters.Status != "" && !models.ValidOrderStatus(*filters.Status) {
		return nil, fmt.Errorf("%w: unknown order status '%s'", ErrValidation, *filters.Status)
	}

	orders, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return &OrderList{Orders: orders, UpdatedAt: latest, Changed: true}, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	lines, err := s.orderRepo.GetOrderLinesByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order lines: %w", err)
	}
	order.Lines = lines
	return order, nil
}

// legalTransition encodes the status machine: pending and in_progress are a
// reversible pair for operator corrections, completed is terminal.
func legalTransition(from, to string) bool {
	switch {
	case from == to:
		return true
	case from == models.StatusPending && to == models.StatusInProgress:
		return true
	case from == models.StatusInProgress && to == models.StatusPending:
		return true
	case from == models.StatusInProgress && to == models.StatusCompleted:
		return true
	default:
		return false
	}
}

// UpdateOrderStatus validates and applies one status transition. Unknown
// status strings and illegal transitions are rejected before any write;
// repeating the current status is a no-op.
func (s *orderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.ValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown order status '%s'", ErrValidation, req.Status)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == req.Status {
		return order, nil
	}
	if !legalTransition(order.Status, req.Status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrValidation, order.Status, req.Status)
	}

	updatedAt := time.Now()
	if err := s.orderRepo.UpdateOrderStatus(s.db, orderID, req.Status, updatedAt); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = req.Status
	order.UpdatedAt = updatedAt
	return order, nil
}
