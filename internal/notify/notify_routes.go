package notify

import (
	"hr-console/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, logger *zap.Logger) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.ContextLogger(logger))
	{
		notifications.GET("", h.Recent)
		notifications.DELETE("/:id", h.Dismiss)
	}
}
