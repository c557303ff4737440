package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if the string
// is empty after trimming. Useful for optional fields that should be NULL in
// the database when not provided.
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
