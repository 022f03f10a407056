package main

import (
	"net/http"
	"strconv"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP statuses:
// validation failures 422, state conflicts 409, missing records 404.
func respondError(c *gin.Context, err error) {
	switch {
	case utils.IsValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case utils.IsStateError(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err == utils.ErrorRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// respondBindError reports which fields failed binding when the error
// carries that information.
func respondBindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return v, true
}

// employeeFromContext resolves the calling user's employee profile.
func employeeFromContext(c *gin.Context) (*models.Employee, bool) {
	userId, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	employee, err := models.GetEmployeeByUserId(c.Request.Context(), userId)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no employee profile for user"})
		return nil, false
	}
	return employee, true
}

func companyIdFromContext(c *gin.Context) (string, bool) {
	companyId, ok := utils.GetCompanyIdFromContext(c.Request.Context())
	if !ok || companyId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user has no company"})
		return "", false
	}
	return companyId, true
}
