package attendance

import (
	"hr-console/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, logger *zap.Logger) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.ContextLogger(logger))
	{
		attendance.GET("", h.View)
		attendance.GET("/stream", h.Stream)

		attendance.PUT("/filter", middleware.RateLimitByIP(10, 20), h.SetFilter)
		attendance.DELETE("/filter", h.ClearFilter)
		attendance.POST("/refresh", middleware.RateLimitByIP(3, 10), h.Refresh)

		attendance.POST("/form", middleware.RateLimitByIP(2, 5), h.OpenForm)
		attendance.PUT("/form/picker", h.Picker)
		attendance.DELETE("/form", h.CloseForm)

		attendance.POST("", middleware.RateLimitByIP(1, 3), h.Mark)
		attendance.DELETE("/:id", middleware.RateLimitByIP(1, 3), h.Delete)
	}
}
