package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SameerShan723/timetable-api/internal/dto"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
	"github.com/SameerShan723/timetable-api/pkg/response"
)

type timetableMutationService interface {
	AddRoom(ctx context.Context, req dto.AddRoomRequest) (*dto.MutationResult, error)
	UpdateSession(ctx context.Context, req dto.UpdateSessionRequest) (*dto.MutationResult, error)
	DeleteSession(ctx context.Context, req dto.DeleteSessionRequest) (*dto.MutationResult, error)
}

type timetableImportService interface {
	Apply(ctx context.Context, req dto.ImportRequest) (*dto.ImportResult, error)
}

// MutationHandler manages grid edit endpoints.
type MutationHandler struct {
	mutations timetableMutationService
	imports   timetableImportService
	metrics   operationMetrics
}

// NewMutationHandler constructs handler. metrics may be nil.
func NewMutationHandler(mutations timetableMutationService, imports timetableImportService, metrics operationMetrics) *MutationHandler {
	return &MutationHandler{mutations: mutations, imports: imports, metrics: metrics}
}

func (h *MutationHandler) observeWrite(conflicts int) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveVersionSaved()
	h.metrics.ObserveConflicts(conflicts)
}

// AddRoom godoc
// @Summary Add a room to all weekdays
// @Tags Mutations
// @Accept json
// @Produce json
// @Param payload body dto.AddRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/rooms [post]
func (h *MutationHandler) AddRoom(c *gin.Context) {
	var req dto.AddRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.mutations.AddRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeWrite(len(result.Conflicts))
	response.Created(c, result)
}

// UpdateSession godoc
// @Summary Update one timetable cell
// @Tags Mutations
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/sessions [put]
func (h *MutationHandler) UpdateSession(c *gin.Context) {
	var req dto.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.mutations.UpdateSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeWrite(len(result.Conflicts))
	response.JSON(c, http.StatusOK, result)
}

// DeleteSession godoc
// @Summary Clear one timetable cell
// @Tags Mutations
// @Accept json
// @Produce json
// @Param payload body dto.DeleteSessionRequest true "Cell coordinates"
// @Success 200 {object} response.Envelope
// @Router /timetable/sessions [delete]
func (h *MutationHandler) DeleteSession(c *gin.Context) {
	var req dto.DeleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.mutations.DeleteSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeWrite(len(result.Conflicts))
	response.JSON(c, http.StatusOK, result)
}

// Import godoc
// @Summary Bulk-apply normalized session rows
// @Tags Mutations
// @Accept json
// @Produce json
// @Param payload body dto.ImportRequest true "Rows payload"
// @Success 200 {object} response.Envelope
// @Router /timetable/import [post]
func (h *MutationHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.imports.Apply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.observeWrite(len(result.Conflicts))
	response.JSON(c, http.StatusOK, result)
}
