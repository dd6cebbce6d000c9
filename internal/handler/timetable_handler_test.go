package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameerShan723/timetable-api/internal/dto"
	"github.com/SameerShan723/timetable-api/internal/models"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type versionServiceStub struct {
	list       *dto.VersionListResponse
	resolved   *dto.TimetableResponse
	saveResult *dto.MutationResult
	cacheHit   bool
	err        error

	finalized int
	deleted   int
}

func (s *versionServiceStub) List(ctx context.Context) (*dto.VersionListResponse, error) {
	return s.list, s.err
}

func (s *versionServiceStub) Get(ctx context.Context, version int) (*dto.TimetableResponse, error) {
	return s.resolved, s.err
}

func (s *versionServiceStub) Selected(ctx context.Context) (*dto.TimetableResponse, bool, error) {
	return s.resolved, s.cacheHit, s.err
}

func (s *versionServiceStub) Save(ctx context.Context, grid models.TimetableData) (*dto.MutationResult, error) {
	return s.saveResult, s.err
}

func (s *versionServiceStub) Finalize(ctx context.Context, version int) error {
	s.finalized = version
	return s.err
}

func (s *versionServiceStub) Delete(ctx context.Context, version int) error {
	s.deleted = version
	return s.err
}

type metricsStub struct {
	hits, misses int
	conflicts    int
	saves        int
}

func (o *metricsStub) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits++
	} else {
		o.misses++
	}
}

func (o *metricsStub) ObserveConflicts(count int) { o.conflicts += count }

func (o *metricsStub) ObserveVersionSaved() { o.saves++ }

func newTimetableRouter(stub *versionServiceStub, metrics operationMetrics) *gin.Engine {
	h := NewTimetableHandler(stub, metrics)
	r := gin.New()
	r.GET("/timetable/versions", h.ListVersions)
	r.POST("/timetable/versions", h.Save)
	r.GET("/timetable/versions/:version", h.GetVersion)
	r.DELETE("/timetable/versions/:version", h.Delete)
	r.POST("/timetable/versions/:version/finalize", h.Finalize)
	r.GET("/timetable/selected", h.GetSelected)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestListVersionsOK(t *testing.T) {
	stub := &versionServiceStub{list: &dto.VersionListResponse{Versions: []int{1, 2}, Latest: 2, Selected: 1}}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodGet, "/timetable/versions", "")

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	var data dto.VersionListResponse
	require.NoError(t, json.Unmarshal(envelope["data"], &data))
	assert.Equal(t, []int{1, 2}, data.Versions)
	assert.Equal(t, 1, data.Selected)
}

func TestGetVersionRejectsBadParam(t *testing.T) {
	stub := &versionServiceStub{}
	r := newTimetableRouter(stub, nil)

	for _, path := range []string{"/timetable/versions/abc", "/timetable/versions/0", "/timetable/versions/-3"} {
		w := doRequest(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)

		envelope := decodeEnvelope(t, w)
		var apiErr appErrors.Error
		require.NoError(t, json.Unmarshal(envelope["error"], &apiErr))
		assert.Equal(t, appErrors.ErrValidation.Code, apiErr.Code)
	}
}

func TestGetVersionNotFoundStatus(t *testing.T) {
	stub := &versionServiceStub{err: appErrors.Clone(appErrors.ErrNotFound, "version 9 not found")}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodGet, "/timetable/versions/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveReturnsCreated(t *testing.T) {
	stub := &versionServiceStub{saveResult: &dto.MutationResult{
		Version:   4,
		Conflicts: []models.Conflict{{Entity: "Smith"}},
	}}
	metrics := &metricsStub{}
	body := `{"grid": [{"day": "Monday", "rooms": []}]}`
	w := doRequest(t, newTimetableRouter(stub, metrics), http.MethodPost, "/timetable/versions", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	envelope := decodeEnvelope(t, w)
	var result dto.MutationResult
	require.NoError(t, json.Unmarshal(envelope["data"], &result))
	assert.Equal(t, 4, result.Version)
	assert.Equal(t, 1, metrics.saves)
	assert.Equal(t, 1, metrics.conflicts)
}

func TestSaveRejectsMalformedBody(t *testing.T) {
	stub := &versionServiceStub{}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodPost, "/timetable/versions", `{"grid": "nope"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSelectedReportsCacheMeta(t *testing.T) {
	stub := &versionServiceStub{resolved: &dto.TimetableResponse{Version: 2}, cacheHit: true}
	metrics := &metricsStub{}
	w := doRequest(t, newTimetableRouter(stub, metrics), http.MethodGet, "/timetable/selected", "")

	assert.Equal(t, http.StatusOK, w.Code)
	envelope := decodeEnvelope(t, w)
	var meta map[string]string
	require.NoError(t, json.Unmarshal(envelope["meta"], &meta))
	assert.Equal(t, "hit", meta["cache"])
	assert.Equal(t, 1, metrics.hits)
	assert.Zero(t, metrics.misses)
}

func TestGetSelectedBeforeFinalize(t *testing.T) {
	stub := &versionServiceStub{err: appErrors.Clone(appErrors.ErrNotFound, "no version has been finalized yet")}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodGet, "/timetable/selected", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFinalizePassesVersion(t *testing.T) {
	stub := &versionServiceStub{}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodPost, "/timetable/versions/3/finalize", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, stub.finalized)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	stub := &versionServiceStub{}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodDelete, "/timetable/versions/2", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, stub.deleted)
	assert.Empty(t, w.Body.Bytes())
}

func TestDeleteSelectedConflictStatus(t *testing.T) {
	stub := &versionServiceStub{err: appErrors.Clone(appErrors.ErrConflict, "cannot delete the selected version")}
	w := doRequest(t, newTimetableRouter(stub, nil), http.MethodDelete, "/timetable/versions/1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}
