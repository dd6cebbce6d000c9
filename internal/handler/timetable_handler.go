package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SameerShan723/timetable-api/internal/dto"
	"github.com/SameerShan723/timetable-api/internal/models"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
	"github.com/SameerShan723/timetable-api/pkg/response"
)

type timetableVersionService interface {
	List(ctx context.Context) (*dto.VersionListResponse, error)
	Get(ctx context.Context, version int) (*dto.TimetableResponse, error)
	Selected(ctx context.Context) (*dto.TimetableResponse, bool, error)
	Save(ctx context.Context, grid models.TimetableData) (*dto.MutationResult, error)
	Finalize(ctx context.Context, version int) error
	Delete(ctx context.Context, version int) error
}

type operationMetrics interface {
	ObserveCacheLookup(hit bool)
	ObserveConflicts(count int)
	ObserveVersionSaved()
}

// TimetableHandler manages version lifecycle endpoints.
type TimetableHandler struct {
	service timetableVersionService
	metrics operationMetrics
}

// NewTimetableHandler constructs handler. metrics may be nil.
func NewTimetableHandler(svc timetableVersionService, metrics operationMetrics) *TimetableHandler {
	return &TimetableHandler{service: svc, metrics: metrics}
}

// versionParam parses the :version path segment; non-numeric or non-positive
// identifiers are rejected before touching storage.
func versionParam(c *gin.Context) (int, error) {
	raw := c.Param("version")
	version, err := strconv.Atoi(raw)
	if err != nil || version <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "version must be a positive integer")
	}
	return version, nil
}

// ListVersions godoc
// @Summary List timetable versions
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/versions [get]
func (h *TimetableHandler) ListVersions(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// GetVersion godoc
// @Summary Get one timetable version with conflicts and stats
// @Tags Timetable
// @Produce json
// @Param version path int true "Version number"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/{version} [get]
func (h *TimetableHandler) GetVersion(c *gin.Context) {
	version, err := versionParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	resolved, err := h.service.Get(c.Request.Context(), version)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resolved)
}

// GetSelected godoc
// @Summary Get the publicly selected timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/selected [get]
func (h *TimetableHandler) GetSelected(c *gin.Context) {
	resolved, hit, err := h.service.Selected(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveCacheLookup(hit)
	}
	meta := map[string]interface{}{"cache": "miss"}
	if hit {
		meta["cache"] = "hit"
	}
	response.JSON(c, http.StatusOK, resolved, meta)
}

// Save godoc
// @Summary Save a grid as a new version
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.SaveTimetableRequest true "Grid payload"
// @Success 201 {object} response.Envelope
// @Router /timetable/versions [post]
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), req.Grid)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveVersionSaved()
		h.metrics.ObserveConflicts(len(result.Conflicts))
	}
	response.Created(c, result)
}

// Finalize godoc
// @Summary Promote a version to selected
// @Tags Timetable
// @Produce json
// @Param version path int true "Version number"
// @Success 200 {object} response.Envelope
// @Router /timetable/versions/{version}/finalize [post]
func (h *TimetableHandler) Finalize(c *gin.Context) {
	version, err := versionParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Finalize(c.Request.Context(), version); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"selected_version": version})
}

// Delete godoc
// @Summary Delete a stored version
// @Tags Timetable
// @Param version path int true "Version number"
// @Success 204
// @Router /timetable/versions/{version} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	version, err := versionParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), version); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
