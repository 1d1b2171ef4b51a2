package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/taskhive/taskhive/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/users", h.SignUp)
	e.DELETE("/users/:id", h.DeleteUser)
	e.POST("/sessions", h.SignIn)
	e.DELETE("/sessions", h.SignOut)

	e.GET("/tasks", h.ListTasks)
	e.POST("/tasks", h.CreateTask)
	e.PATCH("/tasks/:id", h.UpdateTask)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.DELETE("/tasks", h.DeleteTasks)
	e.POST("/tasks/:id/status", h.ToggleStatus)
	e.POST("/tasks/:id/subtasks/:subtaskId", h.ToggleSubtask)
	e.POST("/tasks/renumber", h.Renumber)
	e.POST("/tasks/import", h.ImportTasks)
	e.GET("/tasks/export", h.ExportTasks)
	e.POST("/tasks/enhance", h.Enhance)
}
