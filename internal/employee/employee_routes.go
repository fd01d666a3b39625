package employee

import (
	"hr-console/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("", handler.View)
		employees.GET("/stream", handler.Stream)
		employees.GET("/options",
			middleware.RateLimitByIP(5, 20), // loads up to 1000 rows
			handler.Options,
		)
		employees.GET("/:id", handler.Detail)

		employees.PUT("/filter",
			middleware.RateLimitByIP(20, 40), // per keystroke
			handler.SetFilter,
		)
		employees.POST("/refresh",
			middleware.RateLimitByIP(3, 10),
			handler.Refresh,
		)

		employees.POST("/form", handler.OpenForm)
		employees.DELETE("/form", handler.CloseForm)

		employees.POST("",
			middleware.RateLimitByIP(1, 3),
			handler.Create,
		)
		employees.DELETE("/:id",
			middleware.RateLimitByIP(1, 3),
			handler.Delete,
		)
	}
}
