package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/daycrew/attendance_backend/workflow"
	"github.com/gin-gonic/gin"
)

func listViolationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}

		filter := &models.ViolationFilter{
			Type:     models.ViolationType(c.Query("type")),
			Severity: models.ViolationSeverity(c.Query("severity")),
			Status:   models.ViolationStatus(c.Query("status")),
		}
		if v := c.Query("employee_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id must be an integer"})
				return
			}
			filter.EmployeeId = &id
		}
		if v := c.Query("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
				return
			}
			filter.From = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
				return
			}
			filter.To = t
		}
		filter.Limit, _ = strconv.Atoi(c.Query("limit"))
		filter.Offset, _ = strconv.Atoi(c.Query("offset"))

		violations, err := models.ListViolations(c.Request.Context(), companyId, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"violations": violations, "count": len(violations)})
	}
}

func getViolationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		violation, err := models.GetViolationById(c.Request.Context(), companyId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, violation)
	}
}

type reviewViolationRequest struct {
	Status models.ViolationStatus `json:"status" binding:"required"`
	Notes  string                 `json:"notes"`
}

func reviewViolationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		reviewerId, _ := utils.GetUserIdFromContext(c.Request.Context())

		var req reviewViolationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		violation, err := models.ReviewViolation(c.Request.Context(), companyId, id, reviewerId, req.Status, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		models.WriteAuditLog(c.Request.Context(), "review", "violation", strconv.Itoa(id), gin.H{
			"status": req.Status,
		})
		c.JSON(http.StatusOK, violation)
	}
}

// detectHandler triggers one detection pass on demand. The same passes
// run on a schedule via cmd/detect-violations.
func detectHandler(pass string) gin.HandlerFunc {
	return func(c *gin.Context) {
		detector := workflow.NewDetector(config.GetDB(), config.GetLogger())

		var since *time.Time
		if v := c.Query("since"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
				return
			}
			since = &t
		}

		var (
			result interface{}
			err    error
		)
		switch pass {
		case "attendance":
			result, err = detector.DetectAttendanceViolations(c.Request.Context(), since)
		case "location":
			result, err = detector.DetectLocationViolations(c.Request.Context(), since)
		case "patterns":
			result, err = detector.DetectPatternViolations(c.Request.Context(), since)
		default:
			result, err = detector.RunComprehensiveDetection(c.Request.Context())
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
