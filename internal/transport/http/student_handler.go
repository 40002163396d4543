package http

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	apierrors "github.com/thierryrudaseswa/ClassroomSubTracker/internal/errors"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/middleware"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/query"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/services"
)

// maxPageSize caps page_size for the list endpoint.
const maxPageSize = 100

// maxSampleSize caps n for the sample endpoint.
const maxSampleSize = 100

// StudentHandler serves the dataset read and refresh endpoints.
type StudentHandler struct {
	service      StudentService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	params       *middleware.QueryParamValidator
}

// NewStudentHandler creates a handler with its dependencies.
func NewStudentHandler(service StudentService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *StudentHandler {
	return &StudentHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "student")),
		errorHandler: errorHandler,
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
	}
}

// Routes mounts the handler's endpoints.
func (h *StudentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/students", func(r chi.Router) {
		r.Get("/", h.ListStudents)
		r.Get("/stats", h.GetStats)
	})

	r.Route("/dataset", func(r chi.Router) {
		r.Get("/description", h.GetDescription)
		r.Get("/sample", h.GetSample)
		r.Get("/export", h.Export)
		r.Post("/refresh", h.Refresh)
	})

	return r
}

// studentResponse is the wire shape of one record. Float fields that can be
// NaN in the domain become nullable here; encoding/json cannot represent NaN.
type studentResponse struct {
	StudentID          int64    `json:"student_id"`
	Name               string   `json:"name"`
	Age                int      `json:"age"`
	GradeLevel         int      `json:"grade_level"`
	EnrollmentDate     string   `json:"enrollment_date"`
	GPA                float64  `json:"gpa"`
	AttendanceRate     float64  `json:"attendance_rate"`
	Subjects           []string `json:"subjects"`
	Grades             []string `json:"grades"`
	DaysEnrolled       int      `json:"days_enrolled"`
	NumSubjects        int      `json:"num_subjects"`
	AverageGradePoints *float64 `json:"average_grade_points"`
	AcademicStatus     string   `json:"academic_status"`
	AttendanceCategory string   `json:"attendance_category"`
	AgeGroup           *string  `json:"age_group"`
	PerformanceScore   *float64 `json:"performance_score"`
}

// toStudentResponse converts a domain record to its wire shape.
func toStudentResponse(rec *dataset.Record) studentResponse {
	resp := studentResponse{
		StudentID:          rec.StudentID,
		Name:               rec.Name,
		Age:                rec.Age,
		GradeLevel:         rec.GradeLevel,
		EnrollmentDate:     rec.EnrollmentDate.Format(time.RFC3339),
		GPA:                rec.GPA,
		AttendanceRate:     rec.AttendanceRate,
		Subjects:           rec.Subjects,
		Grades:             rec.Grades,
		DaysEnrolled:       rec.DaysEnrolled,
		NumSubjects:        rec.NumSubjects,
		AverageGradePoints: nullableFloat(rec.AverageGradePoints),
		AcademicStatus:     rec.AcademicStatus.String(),
		AttendanceCategory: rec.AttendanceCategory.String(),
		PerformanceScore:   nullableFloat(rec.PerformanceScore),
	}
	if rec.AgeGroup != dataset.AgeGroupUnknown {
		group := rec.AgeGroup.String()
		resp.AgeGroup = &group
	}
	return resp
}

// nullableFloat maps NaN to nil for JSON.
func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// listResponse is the paginated list envelope.
type listResponse struct {
	Students   []studentResponse `json:"students"`
	Pagination paginationInfo    `json:"pagination"`
}

type paginationInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// parseFilter reads the shared filter parameters. Returns ok=false if a
// response has already been written.
func (h *StudentHandler) parseFilter(w http.ResponseWriter, r *http.Request) (query.Filter, bool) {
	minGPA, ok := h.params.ValidateFloat(w, r, "min_gpa", 0, 4)
	if !ok {
		return query.Filter{}, false
	}
	maxGPA, ok := h.params.ValidateFloat(w, r, "max_gpa", 0, 4)
	if !ok {
		return query.Filter{}, false
	}
	if minGPA != nil && maxGPA != nil && *minGPA > *maxGPA {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("min_gpa", "must not exceed max_gpa"))
		return query.Filter{}, false
	}
	return query.Filter{
		Search: r.URL.Query().Get("search"),
		MinGPA: minGPA,
		MaxGPA: maxGPA,
	}, true
}

// ListStudents handles GET /students.
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	page, ok := h.params.ValidateInt(w, r, "page", 1, 1<<30, 1)
	if !ok {
		return
	}
	pageSize, ok := h.params.ValidateInt(w, r, "page_size", 1, maxPageSize, query.DefaultPageSize)
	if !ok {
		return
	}
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.service.Query(r.Context(), filter, query.PageRequest{Page: page, PageSize: pageSize})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	students := make([]studentResponse, 0, len(result.Records))
	for i := range result.Records {
		students = append(students, toStudentResponse(&result.Records[i]))
	}

	render.JSON(w, r, listResponse{
		Students: students,
		Pagination: paginationInfo{
			Page:       result.Page,
			PageSize:   result.PageSize,
			Total:      result.Total,
			TotalPages: result.TotalPages(),
		},
	})
}

// GetStats handles GET /students/stats.
func (h *StudentHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// GetDescription handles GET /dataset/description.
func (h *StudentHandler) GetDescription(w http.ResponseWriter, r *http.Request) {
	desc, err := h.service.Describe(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	render.JSON(w, r, desc)
}

// GetSample handles GET /dataset/sample.
func (h *StudentHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	n, ok := h.params.ValidateInt(w, r, "n", 1, maxSampleSize, 5)
	if !ok {
		return
	}

	records, err := h.service.Sample(r.Context(), n)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	sample := make([]studentResponse, 0, len(records))
	for i := range records {
		sample = append(sample, toStudentResponse(&records[i]))
	}
	render.JSON(w, r, map[string]interface{}{"sample": sample})
}

// Export handles GET /dataset/export.
func (h *StudentHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, ok := h.params.ValidateEnum(w, r, "format", []string{"csv", "xlsx"}, "csv")
	if !ok {
		return
	}

	// Confirm a snapshot exists before committing download headers, so a
	// missing-snapshot problem response goes out as JSON, not as an
	// attachment.
	if _, err := h.service.Snapshot(); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	var err error
	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="students_%s.xlsx"`, timestamp))
		err = h.service.ExportExcel(r.Context(), w)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="students_%s.csv"`, timestamp))
		err = h.service.ExportCSV(r.Context(), w)
	}

	if err != nil {
		// Headers may already be out; all we can do is log.
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("format", format),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, services.ErrNoSnapshot) {
			h.handleServiceError(w, r, err)
		}
	}
}

// refreshResponse reports the outcome of a refresh.
type refreshResponse struct {
	BatchID string         `json:"batch_id"`
	BuiltAt time.Time      `json:"built_at"`
	Records int            `json:"records"`
	Imputed map[string]int `json:"imputed"`
	Nulls   map[string]int `json:"nulls_observed"`
}

// Refresh handles POST /dataset/refresh.
func (h *StudentHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Refresh(r.Context())
	if err != nil {
		// Bad source data is the caller's problem (422); anything else is a
		// server-side build failure.
		var integrity *dataset.IntegrityError
		var imputation *dataset.ImputationError
		if errors.As(err, &integrity) || errors.As(err, &imputation) {
			h.errorHandler.HandleError(w, r, apierrors.ErrBatchRejected(err))
		} else {
			h.errorHandler.HandleError(w, r, apierrors.ErrDatasetBuild(err))
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, refreshResponse{
		BatchID: snap.BatchID,
		BuiltAt: snap.BuiltAt,
		Records: snap.Len(),
		Imputed: map[string]int{
			"gpa":             snap.Imputation.GPAImputed,
			"attendance_rate": snap.Imputation.AttendanceImputed,
		},
		Nulls: map[string]int{
			"gpa":             snap.Nulls.GPA,
			"attendance_rate": snap.Nulls.AttendanceRate,
		},
	})
}

// handleServiceError maps service errors onto API errors.
func (h *StudentHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoSnapshot):
		h.errorHandler.HandleError(w, r, apierrors.ErrSnapshotUnavailable)
	default:
		var valErr *query.ValidationError
		if errors.As(err, &valErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(valErr.Field, valErr.Message))
			return
		}
		h.errorHandler.HandleError(w, r, err)
	}
}
