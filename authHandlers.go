package main

import (
	"net/http"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Company models.NewCompany `json:"company" binding:"required"`
	Admin   models.NewUser    `json:"admin" binding:"required"`
}

// signupHandler bootstraps a company together with its first admin
// account in one call.
func signupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		company, err := models.CreateCompany(c.Request.Context(), &req.Company)
		if err != nil {
			respondError(c, err)
			return
		}

		req.Admin.CompanyId = company.ID
		req.Admin.Role = models.UserRoleAdmin
		user, err := models.CreateUser(c.Request.Context(), &req.Admin)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PrepareGive()

		c.JSON(http.StatusCreated, gin.H{
			"company": company,
			"admin":   user,
		})
	}
}

func registerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewUser
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}
		if input.CompanyId == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
			return
		}
		if _, err := models.GetCompanyById(c.Request.Context(), input.CompanyId); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company not found"})
			return
		}
		// Self-registration never grants elevated roles.
		input.Role = models.UserRoleEmployee

		user, err := models.CreateUser(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		user.PrepareGive()
		c.JSON(http.StatusCreated, user)
	}
}

// verifyHandler echoes the authenticated user so clients can validate
// a stored token on startup.
func verifyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := utils.GetUserIdFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user, err := models.GetUserById(c.Request.Context(), userId)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		user.PrepareGive()
		c.JSON(http.StatusOK, user)
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		info, err := models.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}
