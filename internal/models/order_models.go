package models

import "time"

// Order statuses. Transitions are forward-only with one reversible step:
// pending <-> in_progress, in_progress -> completed.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ValidOrderStatus reports whether status is one of the known order statuses.
func ValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Order source classifications. An order is tagged verified-table only after
// its table claim passed signature verification (or no table secret is
// configured); everything else is a counter order.
const (
	SourceVerifiedTable = "verified-table"
	SourceCounter       = "counter"
)

// Order is one submitted cart with its lines. Subtotal and the per-line unit
// prices are locked at creation time and never recomputed from the catalog.
type Order struct {
	ID            int64       `json:"id" db:"id"`
	Code          string      `json:"code" db:"code"`
	CustomerName  *string     `json:"customer_name,omitempty" db:"customer_name"`
	CustomerPhone *string     `json:"customer_phone,omitempty" db:"customer_phone"`
	Note          *string     `json:"note,omitempty" db:"note"`
	Status        string      `json:"status" db:"status"`
	Source        string      `json:"source" db:"source"`
	TableCode     *string     `json:"table_code,omitempty" db:"table_code"`
	Subtotal      float64     `json:"subtotal" db:"subtotal"`
	Lines         []OrderLine `json:"lines"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderLine is one priced cart line. DrinkName is denormalized at creation so
// later catalog edits cannot change what the receipt shows.
type OrderLine struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"order_id" db:"order_id"`
	DrinkName string  `json:"drink_name" db:"drink_name"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	LineTotal float64 `json:"line_total" db:"line_total"`
	Note      *string `json:"note,omitempty" db:"note"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status *string `form:"status"`
}
