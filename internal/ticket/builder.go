package ticket

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// Width is the column count of the primary receipt format. The printer does
// no reflow of its own, so every layout decision here is final.
const Width = 32

const timeLayout = "02.01.2006 15:04"

// Build serializes an order into a complete printable ticket, ending with a
// paper feed and a full cut. It is stateless and safe to call concurrently;
// serializing access to one physical printer is the dispatcher's job.
func Build(order models.Order) []byte {
	var b bytes.Buffer
	b.Write(cmdReset)

	b.Write(cmdBoldOn)
	writeLine(&b, centerLine(Sanitize("ORDER "+order.Code), Width))
	b.Write(cmdBoldOff)
	writeLine(&b, rule())

	writeLine(&b, order.CreatedAt.Format(timeLayout))
	if order.Source == models.SourceVerifiedTable && order.TableCode != nil && *order.TableCode != "" {
		writeLine(&b, Sanitize("Table: "+*order.TableCode))
	} else {
		writeLine(&b, "Counter")
	}
	writeWrapped(&b, "Customer: "+customerLabel(order))
	writeLine(&b, rule())

	itemCount := 0
	for _, line := range order.Lines {
		itemCount += line.Quantity
		writeWrapped(&b, line.DrinkName)
		qty := fmt.Sprintf("%d x %s", line.Quantity, money(line.UnitPrice))
		writeLine(&b, justifyLine(qty, money(line.LineTotal), Width))
		if line.Note != nil && *line.Note != "" {
			writeWrapped(&b, "note: "+*line.Note)
		}
		writeLine(&b, "")
	}

	writeLine(&b, rule())
	writeLine(&b, justifyLine("Items:", fmt.Sprintf("%d", itemCount), Width))
	if order.Note != nil && *order.Note != "" {
		writeWrapped(&b, "Note: "+*order.Note)
	}
	writeLine(&b, rule())

	b.Write(cmdBoldOn)
	writeLine(&b, justifyLine("TOTAL", money(order.Subtotal), Width))
	b.Write(cmdBoldOff)

	b.Write(cmdFeed)
	b.Write(cmdCut)
	return b.Bytes()
}

func customerLabel(order models.Order) string {
	if order.CustomerName != nil && *order.CustomerName != "" {
		return *order.CustomerName
	}
	return "-"
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func rule() string {
	return strings.Repeat("-", Width)
}

func writeLine(b *bytes.Buffer, line string) {
	b.WriteString(line)
	b.WriteByte('\n')
}

func writeWrapped(b *bytes.Buffer, text string) {
	for _, line := range wrapText(Sanitize(text), Width) {
		writeLine(b, line)
	}
}

// centerLine pads text to the middle of the given width. Text at or beyond
// the width is cut to exactly the width; shorter text gets floor((w-len)/2)
// leading spaces and no trailing padding.
func centerLine(text string, width int) string {
	if len(text) >= width {
		return text[:width]
	}
	pad := (width - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

// justifyLine places left and right text on one line with the gap between
// them. The right side is never truncated; the left side gives way until at
// least one space separates the two.
func justifyLine(left, right string, width int) string {
	maxLeft := width - len(right) - 1
	if maxLeft < 0 {
		maxLeft = 0
	}
	if len(left) > maxLeft {
		left = left[:maxLeft]
	}
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// wrapText word-wraps text to the width. A line breaks on the last space in
// range when that space sits past half the width; otherwise the word itself
// is longer than is worth preserving and the line hard-breaks mid-word.
func wrapText(text string, width int) []string {
	if width <= 0 || len(text) <= width {
		return []string{text}
	}
	var lines []string
	for len(text) > width {
		if idx := strings.LastIndexByte(text[:width+1], ' '); idx >= width/2 {
			lines = append(lines, text[:idx])
			text = text[idx+1:]
			continue
		}
		lines = append(lines, text[:width])
		text = text[width:]
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
