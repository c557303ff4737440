package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fffffranco2-lgtm/drink-cost-calculator-sub000/internal/models"
)

// OperatorRepository defines the interface for operator account lookups.
// Accounts are provisioned out of band (seeded alongside the schema), so
// there is no create path here.
type OperatorRepository interface {
	FindByUsername(username string) (*models.Operator, error)
	FindByID(operatorID int64) (*models.Operator, error)
}

type operatorRepository struct {
	db *sql.DB
}

// NewOperatorRepository creates a new instance of OperatorRepository.
func NewOperatorRepository(db *sql.DB) OperatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) FindByUsername(username string) (*models.Operator, error) {
	op := &models.Operator{}
	query := `SELECT id, username, password_hash, display_name, created_at
	          FROM operators WHERE username = $1`
	err := r.db.QueryRow(query, username).Scan(&op.ID, &op.Username, &op.PasswordHash, &op.DisplayName, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding operator by username: %v", ErrDatabaseError, err)
	}
	return op, nil
}

func (r *operatorRepository) FindByID(operatorID int64) (*models.Operator, error) {
	op := &models.Operator{}
	query := `SELECT id, username, password_hash, display_name, created_at
	          FROM operators WHERE id = $1`
	err := r.db.QueryRow(query, operatorID).Scan(&op.ID, &op.Username, &op.PasswordHash, &op.DisplayName, &op.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding operator by ID %d: %v", ErrDatabaseError, operatorID, err)
	}
	return op, nil
}
