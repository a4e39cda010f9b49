package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/prodhub/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Profile      *apiHandler.ProfileHandler
	Task         *apiHandler.TaskHandler
	Project      *apiHandler.ProjectHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/register", handlers.Auth.Register)
	r.POST("/api/login", handlers.Auth.Login)
	r.POST("/api/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.GET("/api/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/projects", authMiddleware(handlers.Project.GetProjects))
	r.POST("/api/projects", authMiddleware(handlers.Project.CreateProject))
	r.GET("/api/projects/{id}", authMiddleware(handlers.Project.GetProject))
	r.PUT("/api/projects/{id}", authMiddleware(handlers.Project.UpdateProject))
	r.DELETE("/api/projects/{id}", authMiddleware(handlers.Project.DeleteProject))

	r.GET("/api/notifications", authMiddleware(handlers.Notification.GetNotifications))
	r.POST("/api/notifications/{id}/dismiss", authMiddleware(handlers.Notification.Dismiss))
	r.POST("/api/notifications/{id}/snooze", authMiddleware(handlers.Notification.Snooze))

	return r
}
