package ticket

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

func strptr(s string) *string { return &s }

func sampleOrder() models.Order {
	return models.Order{
		ID:        7,
		Code:      "ORD-20260826-AB12CD",
		Status:    models.StatusPending,
		Source:    models.SourceVerifiedTable,
		TableCode: strptr("T4"),
		Subtotal:  93.70,
		CreatedAt: time.Date(2026, 8, 26, 19, 42, 0, 0, time.UTC),
		Lines: []models.OrderLine{
			{DrinkName: "Gin & Tonic", Quantity: 2, UnitPrice: 30.90, LineTotal: 61.80},
			{DrinkName: "Extraordinarily Long Drink Name That Wraps", Quantity: 1, UnitPrice: 31.90, LineTotal: 31.90, Note: strptr("no ice")},
		},
	}
}

// textLines strips the ESC/POS command bytes and splits the remaining text.
func textLines(t *testing.T, payload []byte) []string {
	t.Helper()
	for _, cmd := range [][]byte{cmdReset, cmdBoldOn, cmdBoldOff, cmdFeed, cmdCut} {
		payload = bytes.ReplaceAll(payload, cmd, nil)
	}
	text := strings.TrimSuffix(string(payload), "\n")
	return strings.Split(text, "\n")
}

func TestBuildFrame(t *testing.T) {
	payload := Build(sampleOrder())

	assert.True(t, bytes.HasPrefix(payload, cmdReset), "ticket must start with printer reset")
	assert.True(t, bytes.HasSuffix(payload, append(append([]byte{}, cmdFeed...), cmdCut...)), "ticket must end with feed then full cut")
	assert.Equal(t, 2, bytes.Count(payload, cmdBoldOn), "header and total row are bold")
	assert.Equal(t, bytes.Count(payload, cmdBoldOn), bytes.Count(payload, cmdBoldOff))
}

func TestBuildContent(t *testing.T) {
	lines := textLines(t, Build(sampleOrder()))
	text := strings.Join(lines, "\n")

	assert.Contains(t, text, "ORDER ORD-20260826-AB12CD")
	assert.Contains(t, text, "26.08.2026 19:42")
	assert.Contains(t, text, "Table: T4")
	assert.Contains(t, text, "Gin & Tonic")
	assert.Contains(t, text, "note: no ice")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, "93.70")
	// 2 + 1 items
	assert.Contains(t, text, "Items:")
	assert.Contains(t, lines, justifyLine("Items:", "3", Width))
}

func TestBuildCounterSource(t *testing.T) {
	order := sampleOrder()
	order.Source = models.SourceCounter
	order.TableCode = nil

	text := strings.Join(textLines(t, Build(order)), "\n")
	assert.Contains(t, text, "Counter")
	assert.NotContains(t, text, "Table:")
}

func TestBuildLineWidthInvariant(t *testing.T) {
	orders := []models.Order{sampleOrder()}

	noisy := sampleOrder()
	noisy.CustomerName = strptr("Someone With A Remarkably Long Name Indeed")
	noisy.Note = strptr("bring “fancy” glasses — it's a birthday…")
	noisy.Lines = append(noisy.Lines, models.OrderLine{
		DrinkName: "Supercalifragilisticexpialidocious-Punch-Special",
		Quantity:  30, UnitPrice: 123456.78, LineTotal: 3703703.40,
		Note: strptr(strings.Repeat("long note ", 12)),
	})
	orders = append(orders, noisy)

	for _, order := range orders {
		for i, line := range textLines(t, Build(order)) {
			require.LessOrEqual(t, len(line), Width, "line %d too wide: %q", i, line)
		}
	}
}

func TestWrapText(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		assert.Equal(t, []string{"short"}, wrapText("short", 32))
	})

	t.Run("breaks on last space past half width", func(t *testing.T) {
		lines := wrapText("aaaa bbbb cccc dddd eeee", 10)
		for _, line := range lines {
			assert.LessOrEqual(t, len(line), 10)
		}
		// No word short enough to keep whole is ever split.
		assert.Equal(t, []string{"aaaa bbbb", "cccc dddd", "eeee"}, lines)
	})

	t.Run("hard-breaks oversized words", func(t *testing.T) {
		lines := wrapText(strings.Repeat("x", 25), 10)
		assert.Equal(t, []string{strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, lines)
	})

	t.Run("early space is ignored in favor of hard break", func(t *testing.T) {
		// Space sits before half width, so the line hard-breaks instead.
		lines := wrapText("ab "+strings.Repeat("y", 20), 10)
		assert.Equal(t, "ab yyyyyyy", lines[0])
	})
}

func TestJustifyLine(t *testing.T) {
	assert.Equal(t, "left                       right", justifyLine("left", "right", 32))
	assert.Len(t, justifyLine("left", "right", 32), 32)

	t.Run("right side never truncated", func(t *testing.T) {
		line := justifyLine(strings.Repeat("L", 40), "99.99", 32)
		assert.True(t, strings.HasSuffix(line, " 99.99"))
		assert.Len(t, line, 32)
	})

	t.Run("gap is at least one space", func(t *testing.T) {
		line := justifyLine(strings.Repeat("L", 31), strings.Repeat("R", 31), 32)
		assert.Contains(t, line, " ")
	})
}

func TestCenterLine(t *testing.T) {
	assert.Equal(t, "     hello", centerLine("hello", 15)) // floor((15-5)/2) = 5
	assert.Equal(t, "hi", centerLine("hi", 2))
	assert.Equal(t, "truncated!", centerLine("truncated!!!", 10))
	assert.Equal(t, "", centerLine("", 0))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `"quoted" - it's fine...`, Sanitize("“quoted” — it’s fine…"))
	assert.Equal(t, "caf\xe9", Sanitize("café"), "latin-1 range passes through as single bytes")
	assert.Equal(t, "??", Sanitize("日本"))
	assert.Equal(t, "a\tb\nc", Sanitize("a\tb\nc"))
	for _, r := range Sanitize("любой юникод 🍸") {
		assert.LessOrEqual(t, r, rune(0xFF))
	}
}
