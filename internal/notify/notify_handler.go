package notify

import (
	"net/http"
	"strconv"

	"hr-console/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultRecentLimit = 10

type Handler struct {
	store  Store
	logger *zap.Logger
}

func NewHandler(store Store, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notify.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notify.handler")
	}
	return &Handler{store: store, logger: l}
}

func (h *Handler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRecentLimit)))
	if err != nil || limit < 1 {
		limit = defaultRecentLimit
	}

	toasts, err := h.store.Recent(c.Request.Context(), limit)
	if err != nil {
		httpErr := response.FromError(c, err)
		h.logger.Warn("list notifications failed", zap.Int("status", httpErr.Status), zap.Error(err))
		return
	}
	response.Success(c, http.StatusOK, toasts, response.NewMeta(c, len(toasts)))
}

func (h *Handler) Dismiss(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Dismiss(c.Request.Context(), id); err != nil {
		httpErr := response.FromError(c, err)
		h.logger.Debug("dismiss notification failed", zap.String("id", id), zap.Int("status", httpErr.Status))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dismissed": true}, nil)
}
