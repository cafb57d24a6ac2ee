package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"broker-portal-backend/pkg/config"
)

func SetupRoutes(r *gin.Engine, requestHandler *RequestHandler, jobHandler *JobHandler, cfg *config.Config) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Job triggers: called by the external scheduler or operators.
		// The reconcile endpoint accepts GET as well because some cron
		// services can only issue GETs.
		jobs := api.Group("/jobs")
		jobs.Use(JobTokenMiddleware(cfg.JobToken))
		{
			jobs.POST("/check-replies", jobHandler.CheckReplies)
			jobs.GET("/check-replies", jobHandler.CheckReplies)
			jobs.POST("/process-cards", jobHandler.ProcessCards)
		}

		// Request lifecycle
		requests := api.Group("/requests")
		requests.Use(JobTokenMiddleware(cfg.JobToken))
		{
			requests.POST("", requestHandler.Submit)
			requests.GET("", requestHandler.List)
			requests.GET("/:id", requestHandler.Get)
			requests.POST("/:id/dispatch", jobHandler.Dispatch)
			requests.POST("/:id/members/:memberId/approve", requestHandler.ApproveMember)
			requests.POST("/:id/members/:memberId/reject", requestHandler.RejectMember)
		}
	}
}

// JobTokenMiddleware guards job and mutation routes with the shared secret.
// Real user identity lives with the external identity provider; this backend
// only ever talks to the scheduler and the portal's own server side.
func JobTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("X-Job-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing job token"})
			return
		}
		c.Next()
	}
}
