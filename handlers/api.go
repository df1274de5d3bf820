package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"attendance_tracker_go/db"
	"attendance_tracker_go/middleware"
	"attendance_tracker_go/models"
	"attendance_tracker_go/services"
	"attendance_tracker_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// GetBatchesAPI returns every batch with its enrolled student count
func GetBatchesAPI(c echo.Context) error {
	batches, err := services.Dashboard.Batches(c.Request().Context())
	if err != nil {
		log.Printf("[ERROR] Failed to load batches: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to load batches",
		})
	}
	return c.JSON(http.StatusOK, batches)
}

// GetDashboardStatsAPI returns the dashboard aggregate
func GetDashboardStatsAPI(c echo.Context) error {
	stats, err := services.Dashboard.Stats(c.Request().Context())
	if err != nil {
		log.Printf("[ERROR] Failed to load dashboard stats: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to load dashboard stats",
		})
	}
	return c.JSON(http.StatusOK, stats)
}

// GetTrendAPI returns the attendance trend series
func GetTrendAPI(c echo.Context) error {
	return c.JSON(http.StatusOK, services.Dashboard.Trend())
}

type createBatchRequest struct {
	Name string `json:"name" form:"name"`
}

// CreateBatchAPI creates a new active batch
func CreateBatchAPI(c echo.Context) error {
	var req createBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	batch, err := services.CreateBatch(c.Request().Context(), db.DB, req.Name)
	if err != nil {
		return apiError(c, err)
	}

	services.Dashboard.InvalidateAll()
	logAction(c, services.AuditEntry{
		Action:       models.AuditActionCreate,
		ResourceType: models.AuditResourceBatch,
		ResourceID:   batch.ID,
		ResourceName: batch.Name,
		NewValues:    map[string]interface{}{"name": batch.Name, "isActive": batch.IsActive},
	})
	return c.JSON(http.StatusCreated, batch)
}

type setBatchActiveRequest struct {
	IsActive *bool `json:"isActive" form:"isActive"`
}

// SetBatchActiveAPI activates or deactivates a batch
func SetBatchActiveAPI(c echo.Context) error {
	var req setBatchActiveRequest
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "isActive is required",
		})
	}

	batch, err := services.SetBatchActive(c.Request().Context(), db.DB, c.Param("id"), *req.IsActive)
	if err != nil {
		return apiError(c, err)
	}

	services.Dashboard.InvalidateAll()
	logAction(c, services.AuditEntry{
		Action:       models.AuditActionUpdate,
		ResourceType: models.AuditResourceBatch,
		ResourceID:   batch.ID,
		ResourceName: batch.Name,
		Description:  "Batch marked " + strings.ToLower(batch.StatusLabel()),
		NewValues:    map[string]interface{}{"isActive": batch.IsActive},
	})
	return c.JSON(http.StatusOK, batch)
}

type enrollStudentRequest struct {
	BatchID string `json:"batchId" form:"batchId"`
	Name    string `json:"name" form:"name"`
	Code    string `json:"code" form:"code"`
}

// CreateStudentAPI enrolls a student in a batch
func CreateStudentAPI(c echo.Context) error {
	var req enrollStudentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	student, err := services.EnrollStudent(c.Request().Context(), db.DB, req.BatchID, req.Name, req.Code)
	if err != nil {
		return apiError(c, err)
	}

	services.Dashboard.InvalidateAll()
	logAction(c, services.AuditEntry{
		Action:       models.AuditActionCreate,
		ResourceType: models.AuditResourceStudent,
		ResourceID:   student.ID,
		ResourceName: student.Name,
		NewValues:    map[string]interface{}{"batchId": student.BatchID, "code": student.Code},
	})
	return c.JSON(http.StatusCreated, student)
}

type scanRequest struct {
	Code   string `json:"code" form:"code"`
	Status string `json:"status" form:"status"`
}

// ScanAttendanceHandler marks a student from a Quick Scan. htmx requests get
// an HTML fragment for the scan dialog; everything else gets JSON.
func ScanAttendanceHandler(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	in := services.MarkAttendanceInput{
		Code:   req.Code,
		Status: strings.ToLower(strings.TrimSpace(req.Status)),
		At:     time.Now(),
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		in.MarkedBy = user.ID
	}

	record, err := services.MarkAttendance(c.Request().Context(), db.DB, in)
	if err != nil {
		if isHTMX(c) {
			status, message := statusForError(err)
			if status == http.StatusInternalServerError {
				log.Printf("[ERROR] Quick scan failed: %v", err)
			}
			return render(c, http.StatusOK, pages.ScanResult(false, message))
		}
		return apiError(c, err)
	}

	services.Dashboard.InvalidateAll()
	logAction(c, services.AuditEntry{
		Action:       models.AuditActionMark,
		ResourceType: models.AuditResourceAttendance,
		ResourceID:   record.ID,
		ResourceName: record.Student.Name,
		Description:  "Marked " + record.Status + " for " + record.Day,
		NewValues:    map[string]interface{}{"status": record.Status, "day": record.Day},
	})
	if isHTMX(c) {
		msg := record.Student.Name + " marked " + record.Status
		return render(c, http.StatusOK, pages.ScanResult(true, msg))
	}
	return c.JSON(http.StatusCreated, record)
}

// statusForError maps service errors to an HTTP status and a message safe to show users
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrBatchNameRequired),
		errors.Is(err, services.ErrBatchNameTooLong),
		errors.Is(err, services.ErrStudentNameRequired),
		errors.Is(err, services.ErrStudentCodeRequired),
		errors.Is(err, services.ErrEmptyScanCode),
		errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrBatchNotFound),
		errors.Is(err, services.ErrStudentNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrStudentCodeTaken),
		errors.Is(err, services.ErrAlreadyMarked),
		errors.Is(err, services.ErrBatchInactive):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

func apiError(c echo.Context, err error) error {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] Request failed: %v", err)
	}
	return c.JSON(status, map[string]string{"error": message})
}

// logAction records an audit entry for the current user
func logAction(c echo.Context, entry services.AuditEntry) {
	services.LogAuditEvent(c.Request().Context(), db.DB, middleware.GetAuditContext(c), entry)
}
