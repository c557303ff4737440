package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCode builds a human-readable identifier of the form
// PREFIX-YYYYMMDD-XXXXXX. The date part keeps codes sortable and easy to read
// back over the counter; the random suffix keeps collisions improbable.
// Callers still retry on a uniqueness conflict, the suffix only makes those
// retries rare.
func GenerateCode(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return prefix + "-" + now.Format("20060102") + "-" + suffix
}
