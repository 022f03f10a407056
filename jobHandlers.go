package main

import (
	"net/http"
	"strconv"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/gin-gonic/gin"
)

func listJobPostsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := &models.JobPostFilter{Search: c.Query("search")}
		filter.Limit, _ = strconv.Atoi(c.Query("limit"))
		filter.Offset, _ = strconv.Atoi(c.Query("offset"))

		posts, err := models.ListJobPosts(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
	}
}

func createJobPostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		authorId, _ := utils.GetUserIdFromContext(c.Request.Context())

		var input models.NewJobPost
		if err := c.ShouldBindJSON(&input); err != nil {
			respondBindError(c, err)
			return
		}

		post, err := models.CreateJobPost(c.Request.Context(), companyId, authorId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "create", "job_post", strconv.Itoa(post.ID), nil)
		c.JSON(http.StatusCreated, post)
	}
}

func getJobPostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		post, err := models.GetJobPostById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

func closeJobPostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyId, ok := companyIdFromContext(c)
		if !ok {
			return
		}
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		authorId, _ := utils.GetUserIdFromContext(c.Request.Context())

		if err := models.CloseJobPost(c.Request.Context(), companyId, authorId, id); err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "close", "job_post", strconv.Itoa(id), nil)
		c.JSON(http.StatusOK, gin.H{"closed": true})
	}
}

func applyJobPostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		applicantId, _ := utils.GetUserIdFromContext(c.Request.Context())

		input := models.NewJobApplication{JobPostId: id}
		// Message body is optional.
		_ = c.ShouldBindJSON(&input)
		input.JobPostId = id

		application, err := models.CreateJobApplication(c.Request.Context(), applicantId, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, application)
	}
}

func listApplicationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		userId, _ := utils.GetUserIdFromContext(c.Request.Context())

		post, err := models.GetJobPostById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if post.AuthorId != userId {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the post author can list applications"})
			return
		}

		applications, err := models.ListJobApplications(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"applications": applications, "count": len(applications)})
	}
}

func myApplicationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		applicantId, _ := utils.GetUserIdFromContext(c.Request.Context())

		applications, err := models.ListApplicationsByApplicant(c.Request.Context(), applicantId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"applications": applications, "count": len(applications)})
	}
}

type decideApplicationRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func decideApplicationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		deciderId, _ := utils.GetUserIdFromContext(c.Request.Context())

		var req decideApplicationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		application, err := models.DecideJobApplication(c.Request.Context(), deciderId, id, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		models.WriteAuditLog(c.Request.Context(), "decide", "job_application", strconv.Itoa(id), gin.H{
			"status": req.Status,
		})
		c.JSON(http.StatusOK, application)
	}
}

func requestDepositHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		applicantId, _ := utils.GetUserIdFromContext(c.Request.Context())

		log, err := models.RequestDeposit(c.Request.Context(), applicantId, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, log)
	}
}

func paymentLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := intParam(c, "id")
		if !ok {
			return
		}
		userId, _ := utils.GetUserIdFromContext(c.Request.Context())

		application, err := models.GetJobApplicationById(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if application.ApplicantId != userId {
			post, err := models.GetJobPostById(c.Request.Context(), application.JobPostId)
			if err != nil || post.AuthorId != userId {
				c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		logs, err := models.ListPaymentLogs(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": logs, "count": len(logs)})
	}
}

type paymentCallbackRequest struct {
	MerchantPayKey string `json:"merchant_pay_key" binding:"required"`
	GatewayTxId    string `json:"gateway_tx_id"`
	Reason         string `json:"reason"`
}

// paymentCompleteHandler is the gateway's success callback. Replays are
// safe: an already-completed payment returns the same result.
func paymentCompleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		log, err := models.CompleteDeposit(c.Request.Context(), req.MerchantPayKey, req.GatewayTxId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, log)
	}
}

func paymentFailHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req paymentCallbackRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}

		if err := models.FailPayment(c.Request.Context(), req.MerchantPayKey, req.Reason); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"failed": true})
	}
}
