package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"notes-service/internal/handler"
	"notes-service/internal/middleware"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
	"notes-service/pkg/logger"
	"notes-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables. A missing
	// JWT secret fails here.
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting notes service...", cfg.LogFields()...)

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()
	log.Info("Database connection established")

	if cfg.Seed {
		if err := database.Seed(db); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
		log.Info("Demo data seeded")
	}

	jwt := jwtutil.New(&cfg.JWT)

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters. CORS runs first so every
	// response, including auth rejections, carries the cross-origin headers.
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORS)
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	authHandler := handler.NewAuthHandler(db, jwt)
	noteHandler := handler.NewNoteHandler(db)
	tenantHandler := handler.NewTenantHandler(db)

	e.GET("/metrics", prometheus.Handler())

	api := e.Group("/api")

	// Public routes - no authentication required
	api.GET("/health", handler.HealthCheck)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// Protected routes - all require a verified Bearer token
	notes := api.Group("/notes", middleware.Auth(jwt, db))
	notes.GET("", noteHandler.List)
	notes.POST("", noteHandler.Create)
	notes.DELETE("/:id", noteHandler.Delete)

	tenants := api.Group("/tenants", middleware.Auth(jwt, db))
	tenants.POST("/:slug/upgrade", tenantHandler.Upgrade)

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
