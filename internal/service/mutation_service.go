package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SameerShan723/timetable-api/internal/dto"
	"github.com/SameerShan723/timetable-api/internal/models"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
)

// MutationService applies single-slot and whole-room edits to the latest
// timetable version. Every operation is read-modify-write on a grid copy:
// load latest (or an empty five-day grid when none exists), mutate the copy,
// analyze, persist. Conflicts found by the analyzer are advisory and never
// block the write; a failed persist discards the copy entirely.
type MutationService struct {
	repo      versionStore
	cache     timetableCache
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMutationService constructs the service.
func NewMutationService(repo versionStore, cache timetableCache, validate *validator.Validate, logger *zap.Logger) *MutationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MutationService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// AddRoom appends an empty schedule for the room to every weekday.
func (s *MutationService) AddRoom(ctx context.Context, req dto.AddRoomRequest) (*dto.MutationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid add room payload")
	}
	room := strings.TrimSpace(req.Room)
	if room == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "room name is required")
	}

	grid, baseVersion, err := s.loadWorkingGrid(ctx)
	if err != nil {
		return nil, err
	}
	if err := grid.AddRoom(room); err != nil {
		return nil, mapGridError(err)
	}
	return s.commit(ctx, grid, baseVersion, req.Mode)
}

// UpdateSession writes one cell.
func (s *MutationService) UpdateSession(ctx context.Context, req dto.UpdateSessionRequest) (*dto.MutationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update session payload")
	}

	grid, baseVersion, err := s.loadWorkingGrid(ctx)
	if err != nil {
		return nil, err
	}
	slot := models.OccupiedSlot(models.Session{
		Subject: req.Session.Subject,
		Teacher: req.Session.Teacher,
		Section: req.Session.Section,
	})
	if err := grid.SetSlot(req.Day, req.Room, req.TimeSlot, slot); err != nil {
		return nil, mapGridError(err)
	}
	return s.commit(ctx, grid, baseVersion, req.Mode)
}

// DeleteSession clears one cell.
func (s *MutationService) DeleteSession(ctx context.Context, req dto.DeleteSessionRequest) (*dto.MutationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delete session payload")
	}

	grid, baseVersion, err := s.loadWorkingGrid(ctx)
	if err != nil {
		return nil, err
	}
	if err := grid.SetSlot(req.Day, req.Room, req.TimeSlot, models.EmptySlot()); err != nil {
		return nil, mapGridError(err)
	}
	return s.commit(ctx, grid, baseVersion, req.Mode)
}

// loadWorkingGrid returns a mutable copy of the latest version's grid, or an
// empty canonical grid when nothing has been saved yet. baseVersion is 0 in
// the empty case.
func (s *MutationService) loadWorkingGrid(ctx context.Context) (models.TimetableData, int, error) {
	latest, err := s.repo.LatestVersion(ctx)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to resolve latest version")
	}
	if latest == 0 {
		return models.NewTimetableData(), 0, nil
	}
	row, err := s.repo.FindByVersion(ctx, latest)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load latest version")
	}
	grid, err := row.Grid()
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored snapshot is unreadable")
	}
	return grid.Clone(), latest, nil
}

// commit persists the mutated copy and attaches advisory analyzer output.
func (s *MutationService) commit(ctx context.Context, grid models.TimetableData, baseVersion int, mode dto.PersistMode) (*dto.MutationResult, error) {
	data, err := models.EncodeGrid(grid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode grid")
	}

	version := baseVersion
	switch {
	case mode == dto.PersistModeInPlace && baseVersion > 0:
		if err := s.repo.ReplaceData(ctx, baseVersion, data); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("version %d not found", baseVersion))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to update version in place")
		}
	default:
		row := &models.TimetableVersion{Data: data}
		if err := s.repo.Create(ctx, row); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save new version")
		}
		version = row.Version
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, timetableCachePattern); err != nil {
			s.logger.Warn("timetable cache invalidation failed", zap.Error(err))
		}
	}

	conflicts := ComputeConflicts(grid)
	if len(conflicts) > 0 {
		s.logger.Info("timetable saved with conflicts",
			zap.Int("version", version),
			zap.Int("conflicts", len(conflicts)))
	}
	return &dto.MutationResult{
		Version:   version,
		Grid:      grid,
		Conflicts: conflicts,
		Stats:     ComputeStats(grid),
	}, nil
}

// mapGridError converts grid invariant violations into typed HTTP errors.
func mapGridError(err error) error {
	switch {
	case errors.Is(err, models.ErrRoomExists):
		return appErrors.Wrap(err, appErrors.ErrDuplicateRoom.Code, appErrors.ErrDuplicateRoom.Status, err.Error())
	case errors.Is(err, models.ErrUnknownRoom):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
}
