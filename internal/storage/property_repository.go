package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/media-tracker/backend/internal/storage/models"
)

// PropertyRepository provides data access for properties.
type PropertyRepository struct {
	BaseRepository
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const propertyColumns = `id, name, address, ical_url, sync_interval_min, last_sync_at,
       sync_status, sync_error, enabled, created_at, updated_at`

// Create inserts a new property.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	p.ID = GenerateID()
	p.CreatedAt = r.Now()
	p.UpdatedAt = r.Now()
	if p.SyncStatus == "" {
		p.SyncStatus = models.SyncStatusPending
	}
	if p.SyncIntervalMin <= 0 {
		p.SyncIntervalMin = 30
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO properties (
			id, name, address, ical_url, sync_interval_min, sync_status, enabled, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, p.Address, p.ICalURL, p.SyncIntervalMin, p.SyncStatus,
		p.Enabled, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p := &models.Property{}

	err := r.DB().QueryRowContext(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE id = ?
	`, id).Scan(
		&p.ID, &p.Name, &p.Address, &p.ICalURL, &p.SyncIntervalMin, &p.LastSyncAt,
		&p.SyncStatus, &p.SyncError, &p.Enabled, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}

	return p, nil
}

// List retrieves all properties ordered by name.
func (r *PropertyRepository) List(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	return r.scanProperties(rows)
}

// ListEnabled retrieves all enabled properties.
func (r *PropertyRepository) ListEnabled(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties WHERE enabled = 1 ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying enabled properties: %w", err)
	}
	defer rows.Close()

	return r.scanProperties(rows)
}

func (r *PropertyRepository) scanProperties(rows *sql.Rows) ([]models.Property, error) {
	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Address, &p.ICalURL, &p.SyncIntervalMin, &p.LastSyncAt,
			&p.SyncStatus, &p.SyncError, &p.Enabled, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Update updates an existing property.
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET
			name = ?, address = ?, ical_url = ?, sync_interval_min = ?, enabled = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.Address, p.ICalURL, p.SyncIntervalMin, p.Enabled, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", p.ID)
	}

	return nil
}

// UpdateSyncStatus updates a property's feed sync status and error.
func (r *PropertyRepository) UpdateSyncStatus(ctx context.Context, id, status string, syncError *string) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET sync_status = ?, sync_error = ?, last_sync_at = ?, updated_at = ?
		WHERE id = ?
	`, status, syncError, r.Now(), r.Now(), id)
	if err != nil {
		return fmt.Errorf("updating sync status: %w", err)
	}
	return nil
}

// Delete removes a property and, via cascade, its tasks and codes.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}
