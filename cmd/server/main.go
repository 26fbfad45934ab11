package main

import (
	"context"
	"log"
	"net/http"

	_ "campusdesk/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"campusdesk/internal/cache"
	"campusdesk/internal/config"
	"campusdesk/internal/db"
	"campusdesk/internal/handler"
	"campusdesk/internal/mail"
	"campusdesk/internal/repository"
	"campusdesk/internal/router"
	"campusdesk/internal/service"
	"campusdesk/internal/storage"
)

// @title Campus Complaint API
// @version 1.0
// @description Campus complaint management API: student submissions, admin triage by department, email notifications.
// @host localhost:9000
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()
	ctx := context.Background()

	e := echo.New()
	e.Use(middleware.RequestID())

	mongoDB, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongoDB)
	adminRepo := repository.NewAdminRepository(mongoDB)
	complaintRepo := repository.NewComplaintRepository(mongoDB)

	// The unique email indexes close the registration check-then-insert race.
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("user indexes: %v", err)
	}
	if err := adminRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("admin indexes: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Mail transport is process-wide: built once here, before serving traffic.
	mailer := mail.NewFromConfig(cfg)

	fileStore, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("file store init: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, adminRepo, mailer)
	complaintService := service.NewComplaintService(complaintRepo, adminRepo, fileStore, mailer, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	complaintHandler := handler.NewComplaintHandler(complaintService)

	// Register routes
	router.Register(e, cfg, authHandler, complaintHandler, cacheClient)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
