package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// SessionRepository defines the interface for service-session database
// operations. The schema carries a partial unique index over
// "closed_at IS NULL", so inserting a second open session fails with a
// unique violation — the service layer treats that as a lost race and
// re-reads instead of failing the caller.
type SessionRepository interface {
	GetActive() (*models.OrderSession, error)
	Insert(executor SQLExecutor, session *models.OrderSession) (int64, error)
	Close(executor SQLExecutor, sessionID int64, closedAt time.Time) error
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetActive() (*models.OrderSession, error) {
	session := &models.OrderSession{}
	query := `SELECT id, code, opened_at, closed_at
	          FROM service_sessions WHERE closed_at IS NULL`
	err := r.db.QueryRow(query).Scan(&session.ID, &session.Code, &session.OpenedAt, &session.ClosedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting active session: %v", ErrDatabaseError, err)
	}
	return session, nil
}

func (r *sessionRepository) Insert(executor SQLExecutor, session *models.OrderSession) (int64, error) {
	query := `INSERT INTO service_sessions (code, opened_at)
	          VALUES ($1, $2)
	          RETURNING id`
	if session.OpenedAt.IsZero() {
		session.OpenedAt = time.Now()
	}
	err := executor.QueryRow(query, session.Code, session.OpenedAt).Scan(&session.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: session code or open-session slot taken: %v", ErrDuplicateKey, err)
		}
		return 0, fmt.Errorf("%w: inserting session: %v", ErrDatabaseError, err)
	}
	return session.ID, nil
}

func (r *sessionRepository) Close(executor SQLExecutor, sessionID int64, closedAt time.Time) error {
	query := `UPDATE service_sessions SET closed_at = $1 WHERE id = $2 AND closed_at IS NULL`
	result, err := executor.Exec(query, closedAt, sessionID)
	if err != nil {
		return fmt.Errorf("%w: closing session ID %d: %v", ErrDatabaseError, sessionID, err)
	}
	return requireRowsAffected(result, "session", sessionID)
}
