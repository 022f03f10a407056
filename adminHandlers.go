package main

import (
	"net/http"
	"strconv"

	"github.com/daycrew/attendance_backend/models"
	"github.com/gin-gonic/gin"
)

func createSiteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}

		var input models.NewSite
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		site, err := models.CreateSite(c.Request.Context(), companyId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "create", "site", strconv.Itoa(site.ID), nil)
		c.JSON(http.StatusCreated, site)
	}
}

func listSitesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		sites, err := models.ListSites(c.Request.Context(), companyId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sites": sites, "count": len(sites)})
	}
}

func getSiteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		site, err := models.GetSiteById(c.Request.Context(), id)
		if err != nil || site.CompanyId != companyId {
			c.JSON(http.StatusNotFound, gin.H{"error": "site not found"})
			return
		}
		c.JSON(http.StatusOK, site)
	}
}

func createEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}

		var input models.NewEmployee
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		employee, err := models.CreateEmployee(c.Request.Context(), companyId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "create", "employee", strconv.Itoa(employee.ID), nil)
		c.JSON(http.StatusCreated, employee)
	}
}

func listEmployeesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}

		var departmentId *int
		if v := c.Query("department_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "department_id must be an integer"})
				return
			}
			departmentId = &id
		}

		employees, err := models.ListEmployees(c.Request.Context(), companyId, departmentId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"employees": employees, "count": len(employees)})
	}
}

func updateEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		var input models.UpdateEmployeeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		employee, err := models.UpdateEmployee(c.Request.Context(), companyId, id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "update", "employee", strconv.Itoa(id), nil)
		c.JSON(http.StatusOK, employee)
	}
}

func deleteEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		if err := models.DeleteEmployee(c.Request.Context(), companyId, id); err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "delete", "employee", strconv.Itoa(id), nil)
		c.Status(http.StatusNoContent)
	}
}

func assignSiteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		employeeId, ok := intParam(c, "id")
		if !ok {
			return
		}
		siteId, ok := intParam(c, "siteId")
		if !ok {
			return
		}

		if err := models.AssignEmployeeToSite(c.Request.Context(), companyId, employeeId, siteId); err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "assign_site", "employee", strconv.Itoa(employeeId), gin.H{
			"site_id": siteId,
		})
		c.JSON(http.StatusOK, gin.H{"assigned": true})
	}
}

func unassignSiteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		employeeId, ok := intParam(c, "id")
		if !ok {
			return
		}
		siteId, ok := intParam(c, "siteId")
		if !ok {
			return
		}

		if err := models.UnassignEmployeeFromSite(c.Request.Context(), companyId, employeeId, siteId); err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "unassign_site", "employee", strconv.Itoa(employeeId), gin.H{
			"site_id": siteId,
		})
		c.Status(http.StatusNoContent)
	}
}

func createDepartmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}

		var input models.NewDepartment
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		department, err := models.CreateDepartment(c.Request.Context(), companyId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, department)
	}
}

func listDepartmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		departments, err := models.ListDepartments(c.Request.Context(), companyId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"departments": departments, "count": len(departments)})
	}
}

func deleteDepartmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}

		if err := models.DeleteDepartment(c.Request.Context(), companyId, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
