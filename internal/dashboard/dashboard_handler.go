package dashboard

import (
	"net/http"

	"hr-console/internal/shared/apperror"
	"hr-console/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("dashboard request failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		// Pesan halaman selalu sama, detail upstream hanya di log
		response.Error(c, httpErr.Status, httpErr.Code, view.Error, nil)
		return
	}
	response.Success(c, http.StatusOK, view, nil)
}
