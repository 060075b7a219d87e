package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmcalla/lessonbridge-backend/internal/curriculum"
	"github.com/jmcalla/lessonbridge-backend/internal/data/db"
	"github.com/jmcalla/lessonbridge-backend/internal/data/repos"
	"github.com/jmcalla/lessonbridge-backend/internal/gemini"
	httpServer "github.com/jmcalla/lessonbridge-backend/internal/http"
	httpH "github.com/jmcalla/lessonbridge-backend/internal/http/handlers"
	httpMW "github.com/jmcalla/lessonbridge-backend/internal/http/middleware"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/envutil"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
	"github.com/jmcalla/lessonbridge-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.Str("JWT_SECRET_KEY", "defaultsecret")
	accessTokenTTL := envutil.Int("ACCESS_TOKEN_TTL", 86400)
	listenAddr := envutil.Str("LISTEN_ADDR", ":8080")
	standardsPath := envutil.Str("STANDARDS_PATH", "")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	allRepos := repos.NewAll(thePG, log)

	// Curriculum standards
	standards, err := curriculum.LoadStandards(standardsPath, log)
	if err != nil {
		log.Warn("Could not load standards document, continuing without it", "error", err)
		standards = curriculum.NewStandards("")
	}

	// Services
	log.Info("Setting up services from main...")
	geminiClient, err := gemini.NewClient(context.Background(), log, standards.Raw())
	if err != nil {
		log.Error("Could not init GeminiClient", "error", err)
		os.Exit(1)
	}
	usageService := services.NewUsageService(thePG, log, allRepos.Usage, allRepos.Students, allRepos.Groups, allRepos.Lessons)
	authService := services.NewAuthService(thePG, log, allRepos.Users, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	rosterService := services.NewRosterService(thePG, log, allRepos.Students, allRepos.Groups, allRepos.Lessons, allRepos.Sessions, usageService)
	workflowService := services.NewWorkflowService(thePG, log, allRepos.Sessions, allRepos.Students, allRepos.Groups, allRepos.Lessons, geminiClient, standards, usageService)
	libraryService := services.NewLibraryService(thePG, log, allRepos.Lessons, usageService)
	adminService := services.NewAdminService(thePG, log, allRepos.Users, allRepos.Usage, allRepos.Students, allRepos.Groups, allRepos.Sessions, allRepos.Lessons)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := httpH.NewAuthHandler(authService)
	userHandler := httpH.NewUserHandler(allRepos.Users)
	dashboardHandler := httpH.NewDashboardHandler(rosterService)
	studentHandler := httpH.NewStudentHandler(rosterService)
	groupHandler := httpH.NewGroupHandler(rosterService)
	workflowHandler := httpH.NewWorkflowHandler(workflowService)
	libraryHandler := httpH.NewLibraryHandler(libraryService)
	adminHandler := httpH.NewAdminHandler(adminService)
	healthHandler := httpH.NewHealthHandler()

	// Middleware
	authMiddleware := httpMW.NewAuthMiddleware(log, authService)

	// Server
	log.Info("Setting up router from main...")
	srv := httpServer.NewServer(httpServer.RouterConfig{
		Log:              log,
		AuthMiddleware:   authMiddleware,
		AuthHandler:      authHandler,
		UserHandler:      userHandler,
		DashboardHandler: dashboardHandler,
		StudentHandler:   studentHandler,
		GroupHandler:     groupHandler,
		WorkflowHandler:  workflowHandler,
		LibraryHandler:   libraryHandler,
		AdminHandler:     adminHandler,
		HealthHandler:    healthHandler,
	})

	log.Info("Starting HTTP server", "addr", listenAddr)
	if err := srv.Run(listenAddr); err != nil {
		log.Error("HTTP server exited", "error", err)
		os.Exit(1)
	}
}
