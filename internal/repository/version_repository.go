package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/SameerShan723/timetable-api/internal/models"
)

// VersionRepository persists numbered timetable snapshots and the singleton
// selected-version pointer.
type VersionRepository struct {
	db *sqlx.DB
}

// NewVersionRepository constructs repository.
func NewVersionRepository(db *sqlx.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// ListVersions returns all stored version numbers ascending.
func (r *VersionRepository) ListVersions(ctx context.Context) ([]int, error) {
	const query = `SELECT version FROM timetable_versions ORDER BY version ASC`
	versions := []int{}
	if err := r.db.SelectContext(ctx, &versions, query); err != nil {
		return nil, fmt.Errorf("list timetable versions: %w", err)
	}
	return versions, nil
}

// LatestVersion returns the highest stored version number, or 0 when no
// version exists yet.
func (r *VersionRepository) LatestVersion(ctx context.Context) (int, error) {
	const query = `SELECT COALESCE(MAX(version), 0) FROM timetable_versions`
	var latest int
	if err := r.db.GetContext(ctx, &latest, query); err != nil {
		return 0, fmt.Errorf("latest timetable version: %w", err)
	}
	return latest, nil
}

// FindByVersion loads one snapshot by version number.
func (r *VersionRepository) FindByVersion(ctx context.Context, version int) (*models.TimetableVersion, error) {
	const query = `SELECT id, version, data, created_at, updated_at FROM timetable_versions WHERE version = $1`
	var row models.TimetableVersion
	if err := r.db.GetContext(ctx, &row, query, version); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create persists a new snapshot. The version number is allocated inside the
// INSERT itself so concurrent callers cannot observe a read-then-increment
// race; the unique index on version backstops duplicates.
func (r *VersionRepository) Create(ctx context.Context, row *models.TimetableVersion) error {
	if row == nil {
		return fmt.Errorf("timetable version payload is nil")
	}
	if len(row.Data) == 0 {
		return fmt.Errorf("timetable version data is required")
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	const query = `
INSERT INTO timetable_versions (id, version, data, created_at, updated_at)
SELECT $1, COALESCE(MAX(version), 0) + 1, $2, $3, $3 FROM timetable_versions
RETURNING version`
	if err := r.db.GetContext(ctx, &row.Version, query, row.ID, row.Data, now); err != nil {
		return fmt.Errorf("insert timetable version: %w", err)
	}
	return nil
}

// ReplaceData overwrites the snapshot body for an existing version. Whole
// snapshot replacement only, never a merge.
func (r *VersionRepository) ReplaceData(ctx context.Context, version int, data types.JSONText) error {
	const query = `UPDATE timetable_versions SET data = $1, updated_at = $2 WHERE version = $3`
	result, err := r.db.ExecContext(ctx, query, data, time.Now().UTC(), version)
	if err != nil {
		return fmt.Errorf("replace timetable version data: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable version rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a stored snapshot.
func (r *VersionRepository) Delete(ctx context.Context, version int) error {
	const query = `DELETE FROM timetable_versions WHERE version = $1`
	result, err := r.db.ExecContext(ctx, query, version)
	if err != nil {
		return fmt.Errorf("delete timetable version: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable version rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SelectedVersion reads the singleton pointer. Returns sql.ErrNoRows when no
// version has been finalized yet.
func (r *VersionRepository) SelectedVersion(ctx context.Context) (*models.SelectedVersion, error) {
	const query = `SELECT version, updated_at FROM timetable_selected WHERE id = TRUE`
	var row models.SelectedVersion
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, err
	}
	return &row, nil
}

// Finalize points the singleton row at the given version. The existence check
// and the pointer update are one guarded upsert statement, so a version
// deleted between check and write fails with sql.ErrNoRows instead of
// silently succeeding.
func (r *VersionRepository) Finalize(ctx context.Context, version int) error {
	const query = `
INSERT INTO timetable_selected (id, version, updated_at)
SELECT TRUE, v.version, $2 FROM timetable_versions v WHERE v.version = $1
ON CONFLICT (id) DO UPDATE SET version = EXCLUDED.version, updated_at = EXCLUDED.updated_at`
	result, err := r.db.ExecContext(ctx, query, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("finalize timetable version: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable selected rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
