package routes

import (
	"net/http"
	"todo-backend/internal/config"
	"todo-backend/internal/delivery/http/handler"
	"todo-backend/internal/infrastructure/cache"
	"todo-backend/internal/infrastructure/database/postgres"
	"todo-backend/internal/logger"
	"todo-backend/internal/mailer"
	"todo-backend/internal/middleware"
	"todo-backend/internal/usecase/auth"
	"todo-backend/internal/usecase/todo"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func SetupRoutes(cfg *config.Config, db *postgres.DB, rdb *redis.Client, notifier mailer.Notifier) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware in order: recovery, request ID, logging, security headers,
	// CORS, request size limit, general rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	userRepository := postgres.NewUserRepository(db)
	bearerTokenRepository := postgres.NewBearerTokenRepository(db)
	authService := auth.NewService(userRepository, bearerTokenRepository, notifier, cfg)
	authHandler := handler.NewAuthHandler(authService)

	var todoCache *cache.TodoCache
	if rdb != nil {
		todoCache = cache.NewTodoCache(rdb)
	}
	todoRepository := postgres.NewTodoRepository(db)
	todoService := todo.NewService(todoRepository, todoCache)
	todoHandler := handler.NewTodoHandler(todoService)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health_check", func(c *gin.Context) {
			if err := db.Health(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "fail",
					"message": "Database connection failed",
				})
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"status": "success",
				"data":   gin.H{"healthy": true},
			})
		})

		authHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg, bearerTokenRepository))
		{
			authHandler.RegisterProtectedRoutes(protected)
			todoHandler.RegisterRoutes(protected)
		}
	}

	logger.Info("All routes initialized")
	return router
}
