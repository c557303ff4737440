// Package printing delivers finished ticket bytes to a printer. The ticket
// builder is a pure function; everything transport-shaped — raw sockets to
// ESC/POS printers, a broker queue for a print bridge, the challenge signer
// for the certificate channel — lives here.
package printing

import (
	"context"
	"fmt"
	"net"
	"time"
)

// Dispatcher sends one ticket's bytes to a named device. Implementations do
// not need to be safe for interleaved tickets on one device; the print
// service serializes dispatches.
type Dispatcher interface {
	Dispatch(ctx context.Context, device string, payload []byte) error
}

// TCPDispatcher writes tickets straight to a network thermal printer on the
// raw-socket port (9100 by convention).
type TCPDispatcher struct {
	// Timeout bounds dial plus write per ticket.
	Timeout time.Duration
}

// NewTCPDispatcher returns a TCPDispatcher with the given per-ticket timeout.
func NewTCPDispatcher(timeout time.Duration) *TCPDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TCPDispatcher{Timeout: timeout}
}

// Dispatch connects to device ("host:port", port defaulting to 9100) and
// writes the payload.
func (d *TCPDispatcher) Dispatch(ctx context.Context, device string, payload []byte) error {
	addr := device
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(device, "9100")
	}

	dialer := net.Dialer{Timeout: d.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing printer %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(d.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("setting write deadline for printer %s: %w", addr, err)
	}

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("writing ticket to printer %s: %w", addr, err)
	}
	return nil
}
