package dashboard

import (
	"hr-console/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, logger *zap.Logger) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.ContextLogger(logger))
	{
		dashboard.GET("", middleware.RateLimitByIP(5, 10), h.View)
	}
}
