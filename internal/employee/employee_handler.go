package employee

import (
	"io"
	"net/http"
	"strconv"

	employeeerrors "hr-console/internal/employee/errors"
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
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
}

// writeViewError answers with the error envelope but still hands back the page so the
// console can re-render it (open form, field errors, kept rows).
func (h *Handler) writeViewError(c *gin.Context, view ListView, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee page action failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	c.JSON(httpErr.Status, response.ApiEnvelope{
		Ok:   false,
		Data: view,
		Meta: response.NewMeta(c, view.Total),
		Error: map[string]interface{}{
			"code":    httpErr.Code,
			"message": httpErr.Message,
			"details": httpErr.Details,
		},
	})
}

func (h *Handler) ok(c *gin.Context, status int, view ListView) {
	response.Success(c, status, view, response.NewMeta(c, view.Total))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) View(c *gin.Context) {
	h.logger.Debug("http employee view")

	view, err := h.service.View(c.Request.Context())
	if err != nil {
		h.writeViewError(c, view, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

func (h *Handler) SetFilter(c *gin.Context) {
	var f Filter
	if err := c.ShouldBindJSON(&f); err != nil {
		h.logger.Warn("http employee filter validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	view, err := h.service.SetFilter(c.Request.Context(), f)
	if err != nil {
		h.writeViewError(c, view, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

func (h *Handler) Refresh(c *gin.Context) {
	view, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		h.writeViewError(c, view, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

func (h *Handler) OpenForm(c *gin.Context) {
	h.ok(c, http.StatusOK, h.service.OpenForm(c.Request.Context()))
}

func (h *Handler) CloseForm(c *gin.Context) {
	h.ok(c, http.StatusOK, h.service.CloseForm(c.Request.Context()))
}

func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	h.logger.Debug("http create employee")

	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
		mapped := apperror.MapValidationError(err)
		var fields map[string][]string
		if appErr, ok := mapped.(*apperror.AppError); ok {
			fields = appErr.Fields
		}
		view := h.service.RejectForm(ctx, req, fields)
		h.writeViewError(c, view, mapped)
		return
	}

	view, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeViewError(c, view, err)
		return
	}
	h.ok(c, http.StatusCreated, view)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}
	h.logger.Debug("http delete employee", zap.Int64("id", id))

	view, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeViewError(c, view, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

// Detail responds 404 with a redirect hint back to the list when the employee cannot be
// loaded.
func (h *Handler) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.writeServiceError(c, employeeerrors.ErrInvalidEmployeeID)
		return
	}

	var params HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	h.logger.Debug("http employee detail", zap.Int64("id", id))

	view, err := h.service.Detail(c.Request.Context(), id, params)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("employee detail failed", zap.Int64("id", id), zap.String("code", httpErr.Code))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, gin.H{"redirect": "/employees"})
		return
	}
	response.Success(c, http.StatusOK, view, response.NewMeta(c, len(view.Records)))
}

func (h *Handler) Options(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts, response.NewMeta(c, len(opts)))
}

// Stream pushes a page snapshot as a server-sent event on every state transition.
func (h *Handler) Stream(c *gin.Context) {
	views, unsubscribe := h.service.Subscribe()
	defer unsubscribe()

	h.logger.Debug("employee stream opened")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case view, ok := <-views:
			if !ok {
				return false
			}
			c.SSEvent("employees", view)
			return true
		}
	})
	h.logger.Debug("employee stream closed")
}
