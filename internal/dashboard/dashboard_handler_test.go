package dashboard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hr-console/internal/apiclient"
	"hr-console/internal/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeDashboardService struct {
	ViewFn func(ctx context.Context) (dashboard.View, error)
}

func (f *fakeDashboardService) View(ctx context.Context) (dashboard.View, error) {
	return f.ViewFn(ctx)
}

func TestHandler_View(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		h := dashboard.NewHandler(&fakeDashboardService{
			ViewFn: func(ctx context.Context) (dashboard.View, error) {
				return dashboard.View{State: dashboard.StateReady, AttendanceRate: 70}, nil
			},
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

		h.View(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"attendance_rate":70`)
	})

	t.Run("upstream failure", func(t *testing.T) {
		h := dashboard.NewHandler(&fakeDashboardService{
			ViewFn: func(ctx context.Context) (dashboard.View, error) {
				return dashboard.View{State: dashboard.StateError, Error: "Failed to load dashboard stats"},
					&apiclient.Error{StatusCode: 500, FriendlyMessage: "Request failed with status code 500"}
			},
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

		h.View(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to load dashboard stats")
	})
}
