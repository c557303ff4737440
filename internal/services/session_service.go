package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/repositories"
	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/pkg/utils"
)

// openRetryAttempts bounds how often Open retries a code collision or a lost
// "only one open session" race before re-reading and giving up.
const openRetryAttempts = 4

// sessionCodePrefix prefixes human-readable session codes (SRV-20260826-XXXXXX).
const sessionCodePrefix = "SRV"

// SessionService enforces the single-active-session rule: at most one
// service session is open at any time, across any number of concurrent
// operator clients and process instances. The rule itself lives in the
// database (partial unique index); this service's job is to tolerate the
// races against it gracefully.
type SessionService interface {
	GetActive() (*models.OrderSession, error)
	Open() (*models.OrderSession, error)
	Close() (*models.OrderSession, error)
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	db          *sql.DB
}

// NewSessionService creates a new instance of SessionService.
func NewSessionService(repo repositories.SessionRepository, db *sql.DB) SessionService {
	return &sessionService{sessionRepo: repo, db: db}
}

// GetActive returns the currently open session, or ErrNotFound if none is open.
func (s *sessionService) GetActive() (*models.OrderSession, error) {
	session, err := s.sessionRepo.GetActive()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open session", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return session, nil
}

// Open returns the active session, creating one when none exists. Opening is
// idempotent: when another operator already opened (or races this call and
// wins), their session is returned instead of a duplicate or an error.
func (s *sessionService) Open() (*models.OrderSession, error) {
	if session, err := s.sessionRepo.GetActive(); err == nil {
		return session, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < openRetryAttempts; attempt++ {
		session := &models.OrderSession{
			Code:     utils.GenerateCode(sessionCodePrefix, time.Now()),
			OpenedAt: time.Now(),
		}
		_, err := s.sessionRepo.Insert(s.db, session)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to open session: %w", err)
		}
		lastErr = err
		// Either our code collided or a concurrent open won the one-open-
		// session slot. Re-check: if someone else's session is live, that is
		// the session the caller wanted.
		if session, err := s.sessionRepo.GetActive(); err == nil {
			return session, nil
		}
	}

	// Retries exhausted with no active session visible — last look before
	// declaring the conflict to the caller.
	if session, err := s.sessionRepo.GetActive(); err == nil {
		return session, nil
	}
	return nil, fmt.Errorf("%w: opening session after %d attempts: %v", ErrConflict, openRetryAttempts, lastErr)
}

// Close stamps closed-at on the active session. With no active session it is
// a no-op returning nil, nil.
func (s *sessionService) Close() (*models.OrderSession, error) {
	session, err := s.sessionRepo.GetActive()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	closedAt := time.Now()
	if err := s.sessionRepo.Close(s.db, session.ID, closedAt); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// A concurrent close beat us to it; the intent is satisfied.
			return nil, nil
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	session.ClosedAt = &closedAt
	return session, nil
}
