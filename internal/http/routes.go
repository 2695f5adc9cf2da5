package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "activity-tracker.com/activity-tracker/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.Identity(h.users))
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/activities", h.ListActivities)
	e.POST("/activities", h.CreateActivity)
	e.GET("/activities/:id", h.GetActivity)
	e.PUT("/activities/:id", h.EditActivity)
	e.DELETE("/activities/:id", h.DeleteActivity)
	e.PATCH("/activities/:id/progress", h.UpdateProgress)
	e.POST("/activities/:id/comments", h.AddComment)
	e.POST("/activities/:id/follow-up", h.FollowUp)
	e.GET("/activities/:id/source", h.OpenSource)

	e.GET("/users", h.ListUsers)
}
