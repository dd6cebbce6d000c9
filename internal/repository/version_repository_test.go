package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameerShan723/timetable-api/internal/models"
)

func newVersionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestVersionRepositoryCreateAllocatesNextVersion(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO timetable_versions (id, version, data, created_at, updated_at)")).
		WithArgs(sqlmock.AnyArg(), types.JSONText(`[]`), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))

	row := &models.TimetableVersion{Data: types.JSONText(`[]`)}
	require.NoError(t, repo.Create(context.Background(), row))
	assert.Equal(t, 3, row.Version)
	assert.NotEmpty(t, row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryCreateRequiresData(t *testing.T) {
	db, _, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	err := repo.Create(context.Background(), &models.TimetableVersion{})
	assert.Error(t, err)
}

func TestVersionRepositoryListVersions(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	rows := sqlmock.NewRows([]string{"version"}).AddRow(1).AddRow(2).AddRow(5)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM timetable_versions ORDER BY version ASC")).
		WillReturnRows(rows)

	versions, err := repo.ListVersions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, versions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryLatestVersionEmpty(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version), 0) FROM timetable_versions")).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

	latest, err := repo.LatestVersion(context.Background())
	require.NoError(t, err)
	assert.Zero(t, latest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryFindByVersionNotFound(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, version, data, created_at, updated_at FROM timetable_versions WHERE version = $1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByVersion(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryReplaceData(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetable_versions SET data = $1, updated_at = $2 WHERE version = $3")).
		WithArgs(types.JSONText(`[]`), sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ReplaceData(context.Background(), 2, types.JSONText(`[]`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryReplaceDataNotFound(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE timetable_versions SET data = $1, updated_at = $2 WHERE version = $3")).
		WithArgs(types.JSONText(`[]`), sqlmock.AnyArg(), 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ReplaceData(context.Background(), 9, types.JSONText(`[]`))
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryFinalize(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_selected (id, version, updated_at)")).
		WithArgs(2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Finalize(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryFinalizeUnknownVersion(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_selected (id, version, updated_at)")).
		WithArgs(99, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finalize(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositorySelectedVersion(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	rows := sqlmock.NewRows([]string{"version", "updated_at"}).AddRow(4, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, updated_at FROM timetable_selected WHERE id = TRUE")).
		WillReturnRows(rows)

	ptr, err := repo.SelectedVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, ptr.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newVersionRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_versions WHERE version = $1")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 7)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
