package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/jmcalla/lessonbridge-backend/internal/http/handlers"
	httpMW "github.com/jmcalla/lessonbridge-backend/internal/http/middleware"
	"github.com/jmcalla/lessonbridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler      *httpH.AuthHandler
	UserHandler      *httpH.UserHandler
	DashboardHandler *httpH.DashboardHandler
	StudentHandler   *httpH.StudentHandler
	GroupHandler     *httpH.GroupHandler
	WorkflowHandler  *httpH.WorkflowHandler
	LibraryHandler   *httpH.LibraryHandler
	AdminHandler     *httpH.AdminHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Get)
		}

		if cfg.StudentHandler != nil {
			protected.POST("/students", cfg.StudentHandler.Create)
			protected.GET("/students", cfg.StudentHandler.List)
			protected.GET("/students/:id", cfg.StudentHandler.Get)
			protected.PUT("/students/:id", cfg.StudentHandler.Update)
			protected.DELETE("/students/:id", cfg.StudentHandler.Delete)
		}

		if cfg.GroupHandler != nil {
			protected.POST("/groups", cfg.GroupHandler.Create)
			protected.GET("/groups", cfg.GroupHandler.List)
			protected.GET("/groups/:id", cfg.GroupHandler.Get)
			protected.PUT("/groups/:id", cfg.GroupHandler.Update)
			protected.DELETE("/groups/:id", cfg.GroupHandler.Delete)
		}

		if cfg.WorkflowHandler != nil {
			protected.POST("/sessions", cfg.WorkflowHandler.CreateSession)
			protected.GET("/sessions", cfg.WorkflowHandler.ListActive)
			protected.GET("/sessions/:id", cfg.WorkflowHandler.GetSession)
			protected.POST("/sessions/:id/suggestions", cfg.WorkflowHandler.GenerateSuggestions)
			protected.POST("/sessions/:id/approve", cfg.WorkflowHandler.ApproveSuggestions)
			protected.POST("/sessions/:id/generate", cfg.WorkflowHandler.GenerateFinal)
			protected.POST("/sessions/:id/save", cfg.WorkflowHandler.SaveToLibrary)
			protected.DELETE("/sessions/:id", cfg.WorkflowHandler.DeleteSession)
		}

		if cfg.LibraryHandler != nil {
			protected.GET("/lessons", cfg.LibraryHandler.List)
			protected.GET("/lessons/:id", cfg.LibraryHandler.Get)
			protected.DELETE("/lessons/:id", cfg.LibraryHandler.Delete)
		}
	}

	admin := protected.Group("/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		if cfg.AdminHandler != nil {
			admin.GET("/dashboard", cfg.AdminHandler.Dashboard)
			admin.GET("/users", cfg.AdminHandler.ListUsers)
			admin.GET("/users/pending", cfg.AdminHandler.ListPendingUsers)
			admin.POST("/users", cfg.AdminHandler.CreateUser)
			admin.PUT("/users/:id", cfg.AdminHandler.UpdateUser)
			admin.POST("/users/:id/approve", cfg.AdminHandler.ApproveUser)
			admin.DELETE("/users/:id", cfg.AdminHandler.DeleteUser)
			admin.POST("/users/bulk-delete", cfg.AdminHandler.BulkDeleteUsers)
			admin.GET("/statistics", cfg.AdminHandler.Statistics)
		}
	}

	return r
}
