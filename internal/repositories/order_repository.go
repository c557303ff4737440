package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	CreateOrderLine(executor SQLExecutor, line *models.OrderLine) (int64, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrderByCode(code string) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, error)
	GetOrderLinesByOrderID(orderID int64) ([]models.OrderLine, error)
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	DeleteOrder(executor SQLExecutor, orderID int64) (int64, error) // Returns rows affected or error
	LastUpdated() (time.Time, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, code, customer_name, customer_phone, note, status, source,
	table_code, subtotal, created_at, updated_at`

func scanOrder(s scanner) (models.Order, error) {
	var o models.Order
	err := s.Scan(
		&o.ID, &o.Code, &o.CustomerName, &o.CustomerPhone, &o.Note, &o.Status, &o.Source,
		&o.TableCode, &o.Subtotal, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (code, customer_name, customer_phone, note, status, source,
	             table_code, subtotal, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	err := executor.QueryRow(query,
		order.Code, order.CustomerName, order.CustomerPhone, order.Note, order.Status, order.Source,
		order.TableCode, order.Subtotal, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: order code '%s'", ErrDuplicateKey, order.Code)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) CreateOrderLine(executor SQLExecutor, line *models.OrderLine) (int64, error) {
	query := `INSERT INTO order_lines (order_id, drink_name, quantity, unit_price, line_total, note)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := executor.QueryRow(query,
		line.OrderID, line.DrinkName, line.Quantity, line.UnitPrice, line.LineTotal, line.Note,
	).Scan(&line.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating order line for order ID %d: %v", ErrDatabaseError, line.OrderID, err)
	}
	return line.ID, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return &order, nil
}

func (r *orderRepository) GetOrderByCode(code string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE code = $1`
	order, err := scanOrder(r.db.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by code %s: %v", ErrDatabaseError, code, err)
	}
	return &order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + ` FROM orders`)

	var conditions []string
	var args []interface{}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filters.Status)
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		o.Lines = []models.OrderLine{}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) GetOrderLinesByOrderID(orderID int64) ([]models.OrderLine, error) {
	query := `SELECT id, order_id, drink_name, quantity, unit_price, line_total, note
	          FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order lines for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	lines := []models.OrderLine{}
	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.DrinkName, &l.Quantity, &l.UnitPrice, &l.LineTotal, &l.Note); err != nil {
			return nil, fmt.Errorf("%w: scanning order line: %v", ErrDatabaseError, err)
		}
		lines = append(lines, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order line rows: %v", ErrDatabaseError, err)
	}
	return lines, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return requireRowsAffected(result, "order", orderID)
}

// DeleteOrder removes an order header and its lines. Its only caller is the
// compensating delete after a failed line insert; completed orders are never
// deleted in normal operation.
func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) (int64, error) {
	if _, err := executor.Exec(`DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		return 0, fmt.Errorf("%w: deleting order lines for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	result, err := executor.Exec(`DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for order delete ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

// LastUpdated returns the most recent updated_at across all orders — the
// watermark the conditional list refresh compares against.
func (r *orderRepository) LastUpdated() (time.Time, error) {
	var t time.Time
	query := `SELECT COALESCE(MAX(updated_at), to_timestamp(0)) FROM orders`
	if err := r.db.QueryRow(query).Scan(&t); err != nil {
		return time.Time{}, fmt.Errorf("%w: getting order watermark: %v", ErrDatabaseError, err)
	}
	return t, nil
}
