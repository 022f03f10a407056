package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/daycrew/attendance_backend/workflow"
	"github.com/gin-gonic/gin"
)

func currentStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, ok := employeeFromContext(c)
		if !ok {
			return
		}

		status, err := workflow.GetCurrentStatus(c.Request.Context(), employee.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	}
}

// checkInHandler is the explicit check-in: the sample goes through the
// same pipeline as a background update, but anything other than a
// successful check-in is reported as an error.
func checkInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, ok := employeeFromContext(c)
		if !ok {
			return
		}

		var input workflow.LocationUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		result, err := workflow.ProcessCheckIn(c.Request.Context(), employee.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// checkOutHandler closes today's open record on an explicit request,
// e.g. when the employee leaves without triggering a geofence exit.
func checkOutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, ok := employeeFromContext(c)
		if !ok {
			return
		}

		record, err := workflow.ProcessCheckOut(c.Request.Context(), employee.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func attendanceHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}

		filter := &models.AttendanceHistoryFilter{}

		// Employees see only their own history; staff may filter by
		// employee_id.
		role, _ := utils.GetUserRoleFromContext(c.Request.Context())
		if models.UserRole(role) == models.UserRoleEmployee {
			employee, ok := employeeFromContext(c)
			if !ok {
				return
			}
			filter.EmployeeId = &employee.ID
		} else if v := c.Query("employee_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "employee_id must be an integer"})
				return
			}
			filter.EmployeeId = &id
		}

		if v := c.Query("site_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "site_id must be an integer"})
				return
			}
			filter.SiteId = &id
		}
		if v := c.Query("from"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
				return
			}
			filter.From = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
				return
			}
			filter.To = t
		}
		filter.Status = models.AttendanceStatus(c.Query("status"))
		filter.Limit, _ = strconv.Atoi(c.Query("limit"))
		filter.Offset, _ = strconv.Atoi(c.Query("offset"))

		records, err := models.ListAttendanceRecords(c.Request.Context(), companyId, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"records": records, "count": len(records)})
	}
}
