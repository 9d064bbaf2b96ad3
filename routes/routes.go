package routes

import (
	"accreditation-audit-api/controllers"
	"accreditation-audit-api/middleware"
	"accreditation-audit-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Accreditation Audit API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Accrediting bodies (admin manages, everyone reads)
			bodies := protected.Group("/accrediting-bodies")
			{
				bodies.GET("", controllers.GetAccreditingBodies)
				bodies.GET("/:id", controllers.GetAccreditingBody)
				bodies.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateAccreditingBody)
				bodies.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateAccreditingBody)
				bodies.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteAccreditingBody)
			}

			// Criteria catalog
			criteria := protected.Group("/criteria")
			{
				criteria.GET("", controllers.GetCriteria)
				criteria.GET("/:id", controllers.GetCriterion)
				criteria.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateCriterion)
				criteria.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateCriterion)
				criteria.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteCriterion)
			}

			// Elements catalog
			elements := protected.Group("/elements")
			{
				elements.GET("", controllers.GetElements)
				elements.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateElement)
				elements.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateElement)
				elements.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteElement)
			}

			// Study programs
			programs := protected.Group("/programs")
			{
				programs.GET("", controllers.GetPrograms)
				programs.GET("/:id", controllers.GetProgram)
				programs.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateProgram)
				programs.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateProgram)
				programs.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteProgram)
			}

			// Personnel registries (admin only)
			coordinators := protected.Group("/coordinators")
			coordinators.Use(middleware.RequireRole(models.RoleAdmin))
			{
				coordinators.GET("", controllers.GetCoordinators)
				coordinators.POST("", controllers.CreateCoordinator)
				coordinators.PUT("/:id", controllers.UpdateCoordinator)
			}
			auditors := protected.Group("/auditors")
			auditors.Use(middleware.RequireRole(models.RoleAdmin))
			{
				auditors.GET("", controllers.GetAuditors)
				auditors.POST("", controllers.CreateAuditor)
				auditors.PUT("/:id", controllers.UpdateAuditor)
			}

			// Audit sessions
			sessions := protected.Group("/audit-sessions")
			{
				sessions.GET("", controllers.GetAuditSessions)
				sessions.GET("/:id", controllers.GetAuditSession)
				sessions.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateAuditSession)
				sessions.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateAuditSession)
				sessions.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteAuditSession)

				// Lifecycle: coordinators submit, admin may force one step
				sessions.POST("/:id/submit", controllers.SubmitSelfAssessment)
				sessions.POST("/:id/advance", middleware.RequireRole(models.RoleAdmin), controllers.AdvanceAuditSession)

				// Per-session views
				sessions.GET("/:id/self-assessments", controllers.GetSelfAssessments)
				sessions.GET("/:id/audit-results", controllers.GetAuditResults)
				sessions.GET("/:id/recommendations", controllers.GetFollowUpRecommendations)
				sessions.GET("/:id/report", controllers.GetSessionReport)
				sessions.GET("/:id/report/criteria/:criterion_id", controllers.GetCriterionAverage)
			}

			// Self-assessments and evidence documents
			assessments := protected.Group("/self-assessments")
			{
				assessments.PUT("/:id", controllers.UpdateSelfAssessment)
				assessments.POST("/:id/documents", controllers.UploadSupportingDocument)
				assessments.GET("/:id/documents", controllers.GetSupportingDocuments)
			}
			documents := protected.Group("/documents")
			{
				documents.GET("/download/:document_id", controllers.DownloadSupportingDocument)
				documents.DELETE("/:document_id", controllers.DeleteSupportingDocument)
			}

			// Audit results, notes and follow-up recommendations
			results := protected.Group("/audit-results")
			{
				results.PUT("/:id", controllers.UpdateAuditResult)
				results.POST("/:id/notes", controllers.CreateAuditNote)
				results.GET("/:id/notes", controllers.GetAuditNotes)
				results.POST("/:id/recommendations", controllers.CreateFollowUpRecommendation)
			}
			recommendations := protected.Group("/recommendations")
			{
				recommendations.PUT("/:id/status", controllers.UpdateFollowUpStatus)
			}

			// Dashboard
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
			}
		}
	}
}
