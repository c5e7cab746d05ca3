package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/media-tracker/backend/internal/storage/models"
)

// SecurityCodeRepository provides data access for property access codes.
type SecurityCodeRepository struct {
	BaseRepository
}

// NewSecurityCodeRepository creates a new security code repository.
func NewSecurityCodeRepository(db *DB) *SecurityCodeRepository {
	return &SecurityCodeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const securityCodeColumns = `id, property_id, code_type, code, start_date, end_date, notes, created_at, updated_at`

// Create inserts a new security code.
func (r *SecurityCodeRepository) Create(ctx context.Context, code *models.SecurityCode) error {
	code.ID = GenerateID()
	code.CreatedAt = r.Now()
	code.UpdatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO security_codes (
			id, property_id, code_type, code, start_date, end_date, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		code.ID, code.PropertyID, code.CodeType, code.Code,
		code.StartDate, code.EndDate, code.Notes, code.CreatedAt, code.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting security code: %w", err)
	}

	return nil
}

// GetByID retrieves a security code by its ID.
func (r *SecurityCodeRepository) GetByID(ctx context.Context, id string) (*models.SecurityCode, error) {
	code := &models.SecurityCode{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT `+securityCodeColumns+` FROM security_codes WHERE id = ?
	`, id).Scan(
		&code.ID, &code.PropertyID, &code.CodeType, &code.Code,
		&code.StartDate, &code.EndDate, &code.Notes, &code.CreatedAt, &code.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying security code: %w", err)
	}

	return code, nil
}

// ListByProperty retrieves all codes for a property in insertion order.
// Activation filtering is the security package's job, not a query concern.
func (r *SecurityCodeRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.SecurityCode, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+securityCodeColumns+` FROM security_codes
		WHERE property_id = ? ORDER BY created_at, id
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying security codes: %w", err)
	}
	defer rows.Close()

	return r.scanCodes(rows)
}

// List retrieves all codes in insertion order.
func (r *SecurityCodeRepository) List(ctx context.Context) ([]models.SecurityCode, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+securityCodeColumns+` FROM security_codes ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying security codes: %w", err)
	}
	defer rows.Close()

	return r.scanCodes(rows)
}

func (r *SecurityCodeRepository) scanCodes(rows *sql.Rows) ([]models.SecurityCode, error) {
	var codes []models.SecurityCode
	for rows.Next() {
		var code models.SecurityCode
		if err := rows.Scan(
			&code.ID, &code.PropertyID, &code.CodeType, &code.Code,
			&code.StartDate, &code.EndDate, &code.Notes, &code.CreatedAt, &code.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning security code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// Update updates an existing security code.
func (r *SecurityCodeRepository) Update(ctx context.Context, code *models.SecurityCode) error {
	code.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE security_codes SET
			code_type = ?, code = ?, start_date = ?, end_date = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		code.CodeType, code.Code, code.StartDate, code.EndDate, code.Notes,
		code.UpdatedAt, code.ID,
	)
	if err != nil {
		return fmt.Errorf("updating security code: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("security code not found: %s", code.ID)
	}

	return nil
}

// Delete removes a security code.
func (r *SecurityCodeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM security_codes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting security code: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("security code not found: %s", id)
	}

	return nil
}
