package models

import "time"

// Operator is a staff account allowed to manage the catalog, sessions and
// orders. Authentication stops at "is this caller an operator" — there is no
// role hierarchy.
type Operator struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	DisplayName  *string   `json:"display_name,omitempty" db:"display_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
