package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/proctoring-service/internal/config"
	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/services"
	"github.com/SAP-F-2025/proctoring-service/internal/utils"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	examHandler       *ExamHandler
	enrollmentHandler *EnrollmentHandler
	alertHandler      *AlertHandler
	reportHandler     *ReportHandler
	authMiddleware    *JWTAuthMiddleware
	serviceManager    services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	cfg *config.Config,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware([]byte(cfg.JWTSecret), cfg.DetectorToken)

	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger, cfg.UploadDir, cfg.MaxUploadSize),
		examHandler:       NewExamHandler(serviceManager.Exam(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), logger),
		alertHandler:      NewAlertHandler(serviceManager.Alert(), logger),
		reportHandler:     NewReportHandler(serviceManager.Report(), logger),
		authMiddleware:    authMiddleware,
		serviceManager:    serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/login", hm.authHandler.Login)
	}

	// Detector routes, gated by the shared detector credential instead of a
	// user token.
	detector := api.Group("")
	detector.Use(hm.authMiddleware.DetectorAuthMiddleware())
	{
		detector.POST("/alerts", hm.alertHandler.Create)
		detector.POST("/ml/proctoring", hm.alertHandler.CreateFromDetector)
	}

	// Authenticated routes
	authed := api.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		authed.GET("/auth/me", hm.authHandler.Me)
		authed.PUT("/profile", hm.authHandler.UpdateProfile)
		authed.POST("/profile/upload", hm.authHandler.UploadProfilePicture)

		// Exam routes
		exams := authed.Group("/exams")
		{
			exams.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor), hm.examHandler.Create)
			exams.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor), hm.examHandler.ListByProctor)
			exams.GET("/active", hm.examHandler.ListActive)
			exams.GET("/:id", hm.examHandler.GetByID)
			exams.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor), hm.examHandler.Update)
		}

		// Enrollment routes
		enrollments := authed.Group("/enrollments")
		{
			enrollments.POST("", hm.enrollmentHandler.Enroll)
			enrollments.GET("/student", hm.enrollmentHandler.ListByStudent)
			enrollments.GET("/exam/:examId", hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor), hm.enrollmentHandler.ListByExam)
			enrollments.PUT("/:id", hm.enrollmentHandler.Update)
		}

		// Alert review routes - Proctors only
		alerts := authed.Group("/alerts")
		alerts.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor))
		{
			alerts.GET("/exam/:examId", hm.alertHandler.ListByExam)
			alerts.PUT("/:id", hm.alertHandler.UpdateStatus)
		}

		// Report routes - Proctors only
		reports := authed.Group("/reports")
		reports.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleProctor))
		{
			reports.GET("/exam/:examId/export", hm.reportHandler.ExportExam)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := 200
		if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
			status = "unhealthy"
			code = 503
		}
		c.JSON(code, gin.H{
			"status":  status,
			"service": "proctoring-service",
		})
	})
}
