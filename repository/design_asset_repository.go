package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"armario-mascota-mockups/models"
)

// DesignSourceRepository resolves design numbers against the design_assets table.
// The design number is the sequential deco_id assigned when the asset was synced from Drive.
// Implements DesignSourceRepositoryInterface
type DesignSourceRepository struct {
	db *sql.DB
}

// NewDesignSourceRepository creates a new DesignSourceRepository
func NewDesignSourceRepository(db *sql.DB) *DesignSourceRepository {
	return &DesignSourceRepository{db: db}
}

// Ensure DesignSourceRepository implements DesignSourceRepositoryInterface
var _ DesignSourceRepositoryInterface = (*DesignSourceRepository)(nil)

// GetByDesignNumber retrieves the active design asset row for a design number
func (r *DesignSourceRepository) GetByDesignNumber(ctx context.Context, designNumber string) (*models.DesignSource, error) {
	log.Printf("🔍 Fetching design source by design number: %s", designNumber)

	query := `
		SELECT deco_id, drive_file_id
		FROM design_assets
		WHERE deco_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1
	`

	var src models.DesignSource
	err := r.db.QueryRowContext(ctx, query, designNumber).Scan(
		&src.DesignNumber,
		&src.DriveFileID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("⚠️  No active design asset for design number %s", designNumber)
		return nil, fmt.Errorf("%w: no active design asset for design number %s", models.ErrAssetFetchFailed, designNumber)
	}
	if err != nil {
		log.Printf("❌ Error fetching design source %s: %v", designNumber, err)
		return nil, fmt.Errorf("failed to get design source: %w", err)
	}

	log.Printf("✓ Design %s resolves to drive_file_id %s", designNumber, src.DriveFileID)
	return &src, nil
}
