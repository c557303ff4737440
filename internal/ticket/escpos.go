// Package ticket renders a persisted order into the byte stream a thermal
// line printer understands. Building a ticket is a pure function of the
// order; transports (raw socket, queue, bridge) live elsewhere and receive
// the finished bytes.
package ticket

import "strings"

// ESC/POS command sequences used by the 32-column receipt format.
var (
	cmdReset   = []byte{0x1B, 0x40}       // ESC @  initialize printer
	cmdBoldOn  = []byte{0x1B, 0x45, 0x01} // ESC E 1
	cmdBoldOff = []byte{0x1B, 0x45, 0x00} // ESC E 0
	cmdFeed    = []byte{0x1B, 0x64, 0x04} // ESC d 4  feed before the cut
	cmdCut     = []byte{0x1D, 0x56, 0x00} // GS V 0  full paper cut
)

// transliterations maps the usual smart punctuation onto ASCII before the
// byte-range filter runs, so quotes and dashes survive instead of turning
// into question marks.
var transliterations = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "′", "'",
	"“", `"`, "”", `"`, "„", `"`,
	"–", "-", "—", "-", "―", "-",
	"…", "...",
	" ", " ",
)

// Sanitize makes text safe for a single-byte printer code page. Smart quote
// and dash variants become their ASCII equivalents; any remaining rune
// outside tab/newline/CR or 0x20..0xFF is replaced with '?'. The returned
// string holds one byte per character, so len() is the printed width.
func Sanitize(s string) string {
	s = transliterations.Replace(s)
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			out = append(out, byte(r))
		case r >= 0x20 && r <= 0xFF:
			out = append(out, byte(r))
		default:
			out = append(out, '?')
		}
	}
	return string(out)
}
