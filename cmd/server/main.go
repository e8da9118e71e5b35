package main

import (
	"log"
	"net/http"

	_ "remarkly/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"remarkly/internal/auth"
	"remarkly/internal/cache"
	"remarkly/internal/config"
	"remarkly/internal/db"
	"remarkly/internal/handler"
	"remarkly/internal/model"
	"remarkly/internal/repository"
	"remarkly/internal/router"
	"remarkly/internal/service"
	"remarkly/internal/upload"
)

// @title Remarkly API
// @version 1.0
// @description Multi-tenant remark backend with JWT authentication and profile image uploads.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Remark{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	uploadStore, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	remarkRepo := repository.NewRemarkRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Initialize services
	userService := service.NewUserService(userRepo, jwtService, uploadStore, cacheClient)
	remarkService := service.NewRemarkService(remarkRepo, cacheClient)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService, uploadStore)
	remarkHandler := handler.NewRemarkHandler(remarkService)

	// Register routes
	router.Register(e, cfg, userRepo, userHandler, remarkHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
