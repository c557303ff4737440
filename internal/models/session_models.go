package models

import "time"

// OrderSession is one service window during which table orders are accepted.
// At most one session has a null ClosedAt; the data layer enforces this with
// a partial unique index and sessions are never deleted.
type OrderSession struct {
	ID       int64      `json:"id" db:"id"`
	Code     string     `json:"code" db:"code"`
	OpenedAt time.Time  `json:"opened_at" db:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty" db:"closed_at"`
}

// IsOpen reports whether the session is still accepting orders.
func (s *OrderSession) IsOpen() bool {
	return s.ClosedAt == nil
}
