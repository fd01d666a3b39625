package notify_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-console/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_RecentAndDismiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := notify.NewMemoryStore()
	store.Success(ctx, "Record deleted")
	store.Error(ctx, "Failed to load attendance")

	h := notify.NewHandler(store)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/notifications?limit=1", nil)
	h.Recent(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load attendance")
	assert.NotContains(t, w.Body.String(), "Record deleted")

	toasts, _ := store.Recent(ctx, 1)
	require.Len(t, toasts, 1)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/notifications/"+toasts[0].ID, nil)
	c.Params = gin.Params{{Key: "id", Value: toasts[0].ID}}
	h.Dismiss(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/notifications/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Dismiss(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
