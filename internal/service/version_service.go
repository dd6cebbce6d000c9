package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/SameerShan723/timetable-api/internal/dto"
	"github.com/SameerShan723/timetable-api/internal/models"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
)

const (
	selectedTimetableCacheKey = "timetable:selected"
	timetableCachePattern     = "timetable:*"
)

type versionStore interface {
	ListVersions(ctx context.Context) ([]int, error)
	LatestVersion(ctx context.Context) (int, error)
	FindByVersion(ctx context.Context, version int) (*models.TimetableVersion, error)
	Create(ctx context.Context, row *models.TimetableVersion) error
	ReplaceData(ctx context.Context, version int, data types.JSONText) error
	Delete(ctx context.Context, version int) error
	SelectedVersion(ctx context.Context) (*models.SelectedVersion, error)
	Finalize(ctx context.Context, version int) error
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// VersionService exposes version lifecycle operations: list, load, save,
// promote and delete.
type VersionService struct {
	repo     versionStore
	cache    timetableCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewVersionService constructs the service. The cache is optional.
func NewVersionService(repo versionStore, cache timetableCache, cacheTTL time.Duration, logger *zap.Logger) *VersionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &VersionService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// List returns stored version numbers ascending plus the latest and selected
// pointers. Selected is 0 while nothing has been finalized.
func (s *VersionService) List(ctx context.Context) (*dto.VersionListResponse, error) {
	versions, err := s.repo.ListVersions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list versions")
	}
	latest := 0
	if len(versions) > 0 {
		latest = versions[len(versions)-1]
	}
	selected := 0
	if ptr, err := s.repo.SelectedVersion(ctx); err == nil {
		selected = ptr.Version
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read selected version")
	}
	return &dto.VersionListResponse{Versions: versions, Latest: latest, Selected: selected}, nil
}

// Get loads one version and attaches its derived conflicts and stats.
func (s *VersionService) Get(ctx context.Context, version int) (*dto.TimetableResponse, error) {
	if version <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer")
	}
	row, err := s.repo.FindByVersion(ctx, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("version %d not found", version))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load version")
	}
	return s.resolve(row)
}

// Selected returns the publicly displayed timetable, serving from cache when
// possible. The bool reports a cache hit.
func (s *VersionService) Selected(ctx context.Context) (*dto.TimetableResponse, bool, error) {
	if s.cache != nil {
		var cached dto.TimetableResponse
		if err := s.cache.Get(ctx, selectedTimetableCacheKey, &cached); err == nil {
			return &cached, true, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("selected timetable cache read failed", zap.Error(err))
		}
	}

	ptr, err := s.repo.SelectedVersion(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "no version has been finalized yet")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read selected version")
	}

	resolved, err := s.Get(ctx, ptr.Version)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, selectedTimetableCacheKey, resolved, s.cacheTTL); err != nil {
			s.logger.Warn("selected timetable cache write failed", zap.Error(err))
		}
	}
	return resolved, false, nil
}

// Save validates and persists a grid as a fresh version. Conflicts are
// computed on the stored grid and returned as advisory output; they never
// block the save.
func (s *VersionService) Save(ctx context.Context, grid models.TimetableData) (*dto.MutationResult, error) {
	if grid == nil {
		grid = models.NewTimetableData()
	}
	if err := grid.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	data, err := models.EncodeGrid(grid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode grid")
	}
	row := &models.TimetableVersion{Data: data}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save version")
	}
	s.invalidateCache(ctx)

	s.logger.Info("timetable version saved", zap.Int("version", row.Version))
	return &dto.MutationResult{
		Version:   row.Version,
		Grid:      grid,
		Conflicts: ComputeConflicts(grid),
		Stats:     ComputeStats(grid),
	}, nil
}

// Finalize atomically promotes a stored version to selected.
func (s *VersionService) Finalize(ctx context.Context, version int) error {
	if version <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer")
	}
	if err := s.repo.Finalize(ctx, version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("version %d not found", version))
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to finalize version")
	}
	s.invalidateCache(ctx)
	s.logger.Info("timetable version finalized", zap.Int("version", version))
	return nil
}

// Delete removes a stored version. The selected version is protected.
func (s *VersionService) Delete(ctx context.Context, version int) error {
	if version <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer")
	}
	if ptr, err := s.repo.SelectedVersion(ctx); err == nil && ptr.Version == version {
		return appErrors.Clone(appErrors.ErrConflict, "cannot delete the selected version")
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to read selected version")
	}
	if err := s.repo.Delete(ctx, version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("version %d not found", version))
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete version")
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *VersionService) resolve(row *models.TimetableVersion) (*dto.TimetableResponse, error) {
	grid, err := row.Grid()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored snapshot is unreadable")
	}
	return &dto.TimetableResponse{
		Version:   row.Version,
		Grid:      grid,
		Conflicts: ComputeConflicts(grid),
		Stats:     ComputeStats(grid),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func (s *VersionService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, timetableCachePattern); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
	}
}
