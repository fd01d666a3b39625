package attendance

import (
	"io"
	"net/http"
	"strconv"

	attendanceerrors "hr-console/internal/attendance/errors"
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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

// writeViewError keeps the page in the body so the console can re-render it next to the
// error.
func (h *Handler) writeViewError(c *gin.Context, view ListView, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance page action failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	c.JSON(httpErr.Status, response.ApiEnvelope{
		Ok:   false,
		Data: view,
		Meta: response.NewMeta(c, len(view.Records)),
		Error: map[string]interface{}{
			"code":    httpErr.Code,
			"message": httpErr.Message,
			"details": httpErr.Details,
		},
	})
}

func (h *Handler) respond(c *gin.Context, status int, view ListView, err error) {
	if err != nil {
		h.writeViewError(c, view, err)
		return
	}
	response.Success(c, status, view, response.NewMeta(c, len(view.Records)))
}

func (h *Handler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context())
	h.respond(c, http.StatusOK, view, err)
}

func (h *Handler) SetFilter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	view, err := h.service.SetFilter(c.Request.Context(), req)
	h.respond(c, http.StatusOK, view, err)
}

func (h *Handler) ClearFilter(c *gin.Context) {
	view, err := h.service.ClearFilter(c.Request.Context())
	h.respond(c, http.StatusOK, view, err)
}

func (h *Handler) Refresh(c *gin.Context) {
	view, err := h.service.Refresh(c.Request.Context())
	h.respond(c, http.StatusOK, view, err)
}

func (h *Handler) OpenForm(c *gin.Context) {
	view := h.service.OpenForm(c.Request.Context())
	h.respond(c, http.StatusOK, view, nil)
}

func (h *Handler) Picker(c *gin.Context) {
	var req PickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	view, err := h.service.Picker(c.Request.Context(), req)
	h.respond(c, http.StatusOK, view, err)
}

func (h *Handler) CloseForm(c *gin.Context) {
	h.respond(c, http.StatusOK, h.service.CloseForm(c.Request.Context()), nil)
}

func (h *Handler) Mark(c *gin.Context) {
	ctx := c.Request.Context()

	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http mark attendance validation failed", zap.Error(err))
		mapped := apperror.MapValidationError(err)
		var fields map[string][]string
		if appErr, ok := mapped.(*apperror.AppError); ok {
			fields = appErr.Fields
		}
		h.writeViewError(c, h.service.RejectForm(ctx, req, fields), mapped)
		return
	}

	view, err := h.service.Mark(ctx, req)
	h.respond(c, http.StatusCreated, view, err)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeServiceError(c, attendanceerrors.ErrInvalidRecordID)
		return
	}
	view, err := h.service.Delete(c.Request.Context(), id)
	h.respond(c, http.StatusOK, view, err)
}

func (h *Handler) Stream(c *gin.Context) {
	views, unsubscribe := h.service.Subscribe()
	defer unsubscribe()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case view, ok := <-views:
			if !ok {
				return false
			}
			c.SSEvent("attendance", view)
			return true
		}
	})
}
