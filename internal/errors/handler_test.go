package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(includeStack bool) *ErrorHandler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewErrorHandler(logger, includeStack)
}

func TestErrorToProblem(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error passthrough",
			err:        ErrSnapshotUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeSnapshotUnavailable,
		},
		{
			name:       "no snapshot message",
			err:        errors.New("no snapshot available"),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   TypeSnapshotUnavailable,
		},
		{
			name:       "not found message",
			err:        errors.New("student not found"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "rate limit message",
			err:        errors.New("rate limit exceeded"),
			wantStatus: http.StatusTooManyRequests,
			wantType:   TypeRateLimit,
		},
		{
			name:       "generic error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/students", problem.Instance)
		})
	}
}

func TestAPIErrorToProblem_Codes(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)

	tests := []struct {
		code     string
		wantType string
	}{
		{"VALIDATION_FAILED", TypeValidation},
		{"NOT_FOUND", TypeNotFound},
		{"BUILD_FAILED", TypeBuildFailed},
		{"EXPORT_FAILED", TypeExportFailed},
		{"SNAPSHOT_UNAVAILABLE", TypeSnapshotUnavailable},
		{"SOMETHING_ELSE", TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			problem := h.ErrorToProblem(New(http.StatusBadRequest, tt.code, "msg"), req)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, tt.code, problem.Extensions["error_code"])
		})
	}
}

func TestHandleError_RendersProblemJSON(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/students/stats", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrValidation("min_gpa", "must be numeric"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeValidation, body["type"])
	assert.Equal(t, "/api/students/stats", body["instance"])
	assert.Contains(t, body, "trace_id")
}

func TestHandleError_NilError(t *testing.T) {
	h := newTestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, nil)
	assert.Empty(t, rec.Body.String())
}

func TestHandlePanic(t *testing.T) {
	h := newTestHandler(true)
	req := httptest.NewRequest(http.MethodPost, "/api/dataset/refresh", nil)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, req, "unexpected state")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "unexpected state", body["panic"])
	assert.Contains(t, body, "stack")
}

func TestRecoveryMiddleware(t *testing.T) {
	h := newTestHandler(false)
	handler := RecoveryMiddleware(h)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := newTestHandler(false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/students", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
