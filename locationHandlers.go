package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/workflow"
	"github.com/gin-gonic/gin"
)

// locationUpdateHandler ingests one GPS sample from the employee's
// device and returns what the pipeline did with it.
func locationUpdateHandler() gin.HandlerFunc {
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

		ctx, span := tracer.Start(c.Request.Context(), "ProcessLocationUpdate")
		defer span.End()

		result, err := workflow.ProcessLocationUpdate(ctx, employee.ID, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// geofenceCheckHandler resolves a coordinate against the employee's
// candidate sites without recording anything.
func geofenceCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, ok := employeeFromContext(c)
		if !ok {
			return
		}

		lat, err := strconv.ParseFloat(c.Query("latitude"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "latitude is required"})
			return
		}
		lng, err := strconv.ParseFloat(c.Query("longitude"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "longitude is required"})
			return
		}

		result, err := workflow.CheckGeofence(c.Request.Context(), employee.ID, lat, lng)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func locationEventsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, ok := employeeFromContext(c)
		if !ok {
			return
		}

		to := time.Now()
		from := to.AddDate(0, 0, -1)
		if v := c.Query("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
				return
			}
			from = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
				return
			}
			to = t
		}
		limit, _ := strconv.Atoi(c.Query("limit"))

		events, err := models.ListLocationEvents(c.Request.Context(), employee.ID, from, to, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
	}
}
