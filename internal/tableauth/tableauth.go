// Package tableauth decides whether an incoming order really comes from the
// table it claims. Table QR labels embed a signature binding the table code
// to a server-held secret; anything that fails verification is downgraded to
// a counter order instead of being rejected, because an unverifiable table
// claim is still a valid order attempt.
package tableauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// MaxTableCodeLen bounds normalized table codes. Real installations label
// tables "T1".."T40" or "BAR"; anything longer is operator error or abuse.
const MaxTableCodeLen = 16

// NormalizeTableCode canonicalizes a claimed table identifier: trimmed,
// uppercased, restricted to A-Z, 0-9 and '-', truncated to MaxTableCodeLen.
// An identifier that normalizes to "" counts as no claim at all.
func NormalizeTableCode(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			if b.Len() >= MaxTableCodeLen {
				break
			}
		}
	}
	return b.String()
}

// Authenticator verifies table-origin claims with an HMAC-SHA256 signature
// over the normalized table code. An empty secret disables verification and
// falls back to trusting any present table claim.
type Authenticator struct {
	secret []byte
}

// New returns an Authenticator using the given shared secret.
func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Sign computes the hex-encoded signature for a table code. The same value
// is embedded into the table's printed QR link.
func (a *Authenticator) Sign(table string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(NormalizeTableCode(table)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Classify maps a claimed table code and caller-supplied signature to an
// order source:
//
//	no table claim                      -> counter
//	claim, no secret configured         -> verified-table (trust on presence)
//	claim, malformed signature          -> counter
//	claim, signature mismatch           -> counter
//	claim, signature verifies           -> verified-table
//
// The comparison is length-checked and then constant-time so that a forged
// signature cannot be probed byte by byte through response timing.
func (a *Authenticator) Classify(table, signature string) (string, string) {
	code := NormalizeTableCode(table)
	if code == "" {
		return models.SourceCounter, ""
	}
	if len(a.secret) == 0 {
		return models.SourceVerifiedTable, code
	}
	sig := strings.ToLower(strings.TrimSpace(signature))
	if !validSignatureFormat(sig) {
		return models.SourceCounter, ""
	}
	expected := a.Sign(code)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return models.SourceCounter, ""
	}
	return models.SourceVerifiedTable, code
}

// validSignatureFormat rejects signatures of the wrong length or charset
// before the constant-time comparison runs. hex.SHA-256 is always 64 chars.
func validSignatureFormat(sig string) bool {
	if len(sig) != hex.EncodedLen(sha256.Size) {
		return false
	}
	_, err := hex.DecodeString(sig)
	return err == nil
}
