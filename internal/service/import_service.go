package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/SameerShan723/timetable-api/internal/dto"
	"github.com/SameerShan723/timetable-api/internal/models"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
)

// ImportService bulk-applies normalized spreadsheet rows to the latest grid.
// Parsing happens upstream; rows arrive already shaped. Row failures are
// collected per index rather than aborting the batch, but a batch in which
// no row applies is rejected without persisting.
type ImportService struct {
	mutations *MutationService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewImportService constructs the service on top of the mutation pipeline.
func NewImportService(mutations *MutationService, validate *validator.Validate, logger *zap.Logger) *ImportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{mutations: mutations, validator: validate, logger: logger}
}

// Apply places every row into a copy of the latest grid and persists the
// result. Unknown rooms are created on the fly when CreateRooms is set,
// otherwise the row is reported as failed.
func (s *ImportService) Apply(ctx context.Context, req dto.ImportRequest) (*dto.ImportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	grid, baseVersion, err := s.mutations.loadWorkingGrid(ctx)
	if err != nil {
		return nil, err
	}

	applied := 0
	rowErrors := []dto.ImportRowError{}
	for i, row := range req.Rows {
		if err := s.applyRow(grid, row, req.CreateRooms); err != nil {
			rowErrors = append(rowErrors, dto.ImportRowError{Index: i, Message: err.Error()})
			continue
		}
		applied++
	}
	if applied == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no import row could be applied")
	}

	result, err := s.mutations.commit(ctx, grid, baseVersion, req.Mode)
	if err != nil {
		return nil, err
	}

	s.logger.Info("timetable import applied",
		zap.Int("version", result.Version),
		zap.Int("applied", applied),
		zap.Int("failed", len(rowErrors)))

	return &dto.ImportResult{
		Version:   result.Version,
		Applied:   applied,
		RowErrors: rowErrors,
		Conflicts: result.Conflicts,
		Stats:     result.Stats,
	}, nil
}

func (s *ImportService) applyRow(grid models.TimetableData, row dto.ImportRow, createRooms bool) error {
	room := strings.TrimSpace(row.Room)
	if room == "" {
		return fmt.Errorf("room is required")
	}
	if _, exists := grid.RoomIndex(row.Day, room); !exists {
		if !createRooms {
			return fmt.Errorf("unknown room %q on %s", room, row.Day)
		}
		if err := grid.AddRoom(room); err != nil {
			return err
		}
	}
	slot := models.OccupiedSlot(models.Session{
		Subject: row.Subject,
		Teacher: row.Teacher,
		Section: row.Section,
	})
	return grid.SetSlot(row.Day, room, row.TimeSlot, slot)
}
