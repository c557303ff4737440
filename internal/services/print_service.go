package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/printing"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/ticket"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"
)

// autoPrintBuffer bounds the auto-print backlog. A full buffer drops the job
// with a warning instead of blocking order creation on a stuck printer.
const autoPrintBuffer = 32

// PrintService turns persisted orders into tickets and delivers them.
// Ticket building is pure and concurrent-safe; delivery to the one physical
// printer is serialized here so two tickets never interleave.
type PrintService interface {
	TicketBytes(orderID int64) ([]byte, error)
	PrintOrder(ctx context.Context, orderID int64, device string) error
	SignChallenge(challenge []byte) ([]byte, error)
	EnqueueAutoPrint(orderID int64)
	Shutdown()
}

type printService struct {
	orders        OrderService
	dispatcher    printing.Dispatcher
	signer        *printing.ChallengeSigner
	defaultDevice string

	dispatchMu sync.Mutex
	jobs       chan int64
	done       chan struct{}
}

// NewPrintService creates a PrintService and starts its auto-print worker.
// signer may be nil when no challenge key is configured.
func NewPrintService(orders OrderService, dispatcher printing.Dispatcher, signer *printing.ChallengeSigner, defaultDevice string) PrintService {
	s := &printService{
		orders:        orders,
		dispatcher:    dispatcher,
		signer:        signer,
		defaultDevice: defaultDevice,
		jobs:          make(chan int64, autoPrintBuffer),
		done:          make(chan struct{}),
	}
	go s.autoPrintWorker()
	return s
}

// TicketBytes resolves the order and renders its ticket without dispatching.
func (s *printService) TicketBytes(orderID int64) ([]byte, error) {
	order, err := s.orders.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	return ticket.Build(*order), nil
}

// PrintOrder renders and dispatches one ticket. device "" means the
// configured default printer.
func (s *printService) PrintOrder(ctx context.Context, orderID int64, device string) error {
	payload, err := s.TicketBytes(orderID)
	if err != nil {
		return err
	}
	if device == "" {
		device = s.defaultDevice
	}
	if device == "" || s.dispatcher == nil {
		return fmt.Errorf("%w: no printer configured", ErrUpstream)
	}

	// One ticket at a time per process; the dispatcher below may add its own
	// broker-level serialization but must not rely on it.
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if err := s.dispatcher.Dispatch(ctx, device, payload); err != nil {
		return fmt.Errorf("%w: dispatching ticket for order %d: %v", ErrUpstream, orderID, err)
	}
	return nil
}

// SignChallenge signs opaque challenge bytes for the certificate-
// authenticated print channel.
func (s *printService) SignChallenge(challenge []byte) ([]byte, error) {
	if s.signer == nil {
		return nil, fmt.Errorf("%w: no challenge signing key configured", ErrUpstream)
	}
	if len(challenge) == 0 {
		return nil, fmt.Errorf("%w: empty challenge", ErrValidation)
	}
	return s.signer.Sign(challenge), nil
}

// EnqueueAutoPrint queues an order for background printing. Never blocks.
func (s *printService) EnqueueAutoPrint(orderID int64) {
	select {
	case s.jobs <- orderID:
	default:
		utils.LogWarn("auto-print queue full, dropping job", map[string]interface{}{"order_id": orderID})
	}
}

func (s *printService) autoPrintWorker() {
	for {
		select {
		case orderID := <-s.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			if err := s.PrintOrder(ctx, orderID, ""); err != nil {
				utils.LogError(err, "auto-print failed")
			}
			cancel()
		case <-s.done:
			return
		}
	}
}

// Shutdown stops the auto-print worker. Queued jobs are dropped.
func (s *printService) Shutdown() {
	close(s.done)
}
