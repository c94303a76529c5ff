package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"peerflow/internal/config"
	"peerflow/internal/domain"
	"peerflow/internal/handler"
	"peerflow/internal/middleware"
	"peerflow/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	userH *handler.UserHandler,
	submissionH *handler.SubmissionHandler,
	reviewH *handler.ReviewHandler,
	manuscriptH *handler.ManuscriptHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// User management
	users := protected.Group("/users")
	users.GET("/me", userH.Me)
	users.POST("", middleware.RequireRole(domain.RoleAdmin), userH.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor), userH.List)
	users.GET("/:id", userH.GetByID)
	users.PUT("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Update)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), userH.Delete)

	// Submission lifecycle. Role gates beyond authentication live in the
	// services, which resolve visibility and capability per submission.
	subs := protected.Group("/submissions")
	subs.POST("", submissionH.Create)
	subs.GET("", submissionH.List)
	subs.GET("/:id", submissionH.GetByID)
	subs.PUT("/:id", submissionH.Update)
	subs.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), submissionH.Delete)
	subs.POST("/:id/submit", submissionH.Submit)
	subs.POST("/:id/assign", middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor), submissionH.Assign)
	subs.POST("/:id/decision", middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor), submissionH.Decide)
	subs.POST("/:id/resubmit", submissionH.Resubmit)
	subs.POST("/:id/publish", middleware.RequireRole(domain.RolePublisher, domain.RoleEditor), submissionH.Publish)
	subs.GET("/:id/events", middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor), submissionH.ListEvents)

	// Reviews
	subs.POST("/:id/reviews", middleware.RequireRole(domain.RoleReviewer), reviewH.SubmitReview)
	subs.GET("/:id/reviews", reviewH.ListReviews)
	subs.GET("/:id/reviews/round", reviewH.RoundStatus)
	protected.GET("/reviews/queue", middleware.RequireRole(domain.RoleReviewer), reviewH.Queue)

	// Manuscript artifacts
	manuscripts := protected.Group("/manuscripts")
	manuscripts.POST("/upload", manuscriptH.Upload)
	manuscripts.GET("/download", manuscriptH.DownloadURL)

	// Editorial exports
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor))
	reports.GET("/submissions/csv", reportH.ExportCSV)
	reports.GET("/submissions/xlsx", reportH.ExportXLSX)

	return r
}
