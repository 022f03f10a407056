package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/daycrew/attendance_backend/models/reports"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// dailyAttendanceReportHandler streams one day's attendance as xlsx.
// Defaults to today when no date is given.
func dailyAttendanceReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		day := time.Now()
		if v := c.Query("date"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			day = t
		}

		rows, err := reports.GetDailyAttendanceReport(c.Request.Context(), day)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=attendance_%s.xlsx", day.Format("2006-01-02")))
		if err := reports.WriteDailyAttendanceXlsx(c.Writer, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write report"})
		}
	}
}

// violationsReportHandler streams violations in [from, to) as xlsx.
// Defaults to the last 7 days.
func violationsReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		to := time.Now()
		from := to.AddDate(0, 0, -7)
		if v := c.Query("from"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
				return
			}
			from = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
				return
			}
			// Make the named day inclusive.
			to = t.AddDate(0, 0, 1)
		}

		rows, err := reports.GetViolationsReport(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Type", xlsxContentType)
		c.Header("Content-Disposition",
			fmt.Sprintf("attachment; filename=violations_%s_%s.xlsx",
				from.Format("2006-01-02"), to.Format("2006-01-02")))
		if err := reports.WriteViolationsXlsx(c.Writer, rows); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write report"})
		}
	}
}
