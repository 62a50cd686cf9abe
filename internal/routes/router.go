package routes

import (
	"context"
	"net/http"

	"account-rbac-service/internal/config"
	"account-rbac-service/internal/delivery/http/handler"
	"account-rbac-service/internal/domain/audit"
	"account-rbac-service/internal/domain/event"
	"account-rbac-service/internal/infrastructure/database/postgres"
	"account-rbac-service/internal/logger"
	"account-rbac-service/internal/middleware"
	"account-rbac-service/internal/usecase/access"
	"account-rbac-service/internal/usecase/credential"
	"account-rbac-service/internal/usecase/user"
	"account-rbac-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Services are the use cases shared by the HTTP layer and the command line.
type Services struct {
	Users       *user.Service
	Credentials *credential.Service
	Access      *access.Service
}

func NewServices(cfg *config.Config, db *postgres.DB, publisher event.Publisher, clock audit.Clock) *Services {
	userRepository := postgres.NewUserRepository(db)
	tokenRepository := postgres.NewTokenRepository(db)
	otpRepository := postgres.NewOtpRepository(db)
	roleRepository := postgres.NewRoleRepository(db)
	permissionRepository := postgres.NewPermissionRepository(db)
	assignmentRepository := postgres.NewAssignmentRepository(db)
	txManager := postgres.NewTransactionManager(db)

	return &Services{
		Users: user.NewService(userRepository, tokenRepository, roleRepository,
			assignmentRepository, txManager, publisher, clock),
		Credentials: credential.NewService(tokenRepository, otpRepository, userRepository,
			txManager, publisher, cfg, clock),
		Access: access.NewService(roleRepository, permissionRepository, assignmentRepository,
			userRepository, txManager, publisher, clock),
	}
}

// SetupRoutes builds the HTTP engine. Background work started here stops
// when ctx is cancelled.
func SetupRoutes(ctx context.Context, cfg *config.Config, db *postgres.DB, services *Services) *gin.Engine {
	production := cfg.Server.Environment == "production"
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	go rateLimiter.Run(ctx)

	// Order: recovery, request ID, logging, security headers, CORS, compression, request size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware(production))
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.CompressionMiddleware())
	router.Use(middleware.RequestSizeLimitMiddleware(cfg.RequestSize))
	router.Use(rateLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	router.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "Route not found")
	})

	userHandler := handler.NewUserHandler(services.Users)
	credentialHandler := handler.NewCredentialHandler(services.Credentials, !production)
	accessHandler := handler.NewAccessHandler(services.Access)

	v1 := router.Group("/api/v1")
	{
		credentialHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(services.Credentials))
		{
			userHandler.RegisterProfileRoutes(protected)
			userHandler.RegisterRoutes(protected, services.Access)
			accessHandler.RegisterUserRoutes(protected)
			credentialHandler.RegisterTokenRoutes(protected)

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
				accessHandler.RegisterAdminRoutes(admin)
				credentialHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
