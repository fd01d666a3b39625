package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hr-console/internal/apiclient"
	"hr-console/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, register func(r *gin.Engine)) (*apiclient.Client, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api/", Timeout: 2 * time.Second}), srv
}

func TestClient_Do_Success(t *testing.T) {
	var gotQuery map[string][]string
	var gotHeaders http.Header
	client, _ := newBackend(t, func(r *gin.Engine) {
		r.GET("/api/employees/", func(c *gin.Context) {
			gotQuery = c.Request.URL.Query()
			gotHeaders = c.Request.Header.Clone()
			c.JSON(http.StatusOK, gin.H{"results": []gin.H{{"id": 1, "full_name": "Ana"}}})
		})
	})

	ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
	var out struct {
		Results []struct {
			ID       int    `json:"id"`
			FullName string `json:"full_name"`
		} `json:"results"`
	}
	err := client.Get(ctx, "/employees/", map[string]string{"search": "ana", "department": ""}, &out)

	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "Ana", out.Results[0].FullName)
	assert.Equal(t, []string{"ana"}, gotQuery["search"])
	_, hasDept := gotQuery["department"]
	assert.False(t, hasDept, "empty params must not be sent")
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "REQ-1", gotHeaders.Get("X-Request-ID"))
}

func TestClient_Do_PostBody(t *testing.T) {
	var got map[string]any
	client, _ := newBackend(t, func(r *gin.Engine) {
		r.POST("/api/attendance/", func(c *gin.Context) {
			_ = c.ShouldBindJSON(&got)
			c.JSON(http.StatusCreated, gin.H{"id": 9, "status": "Present"})
		})
	})

	var out struct {
		ID     int    `json:"id"`
		Status string `json:"status"`
	}
	err := client.Post(context.Background(), "/attendance/", map[string]any{"employee": 3, "status": "Present"}, &out)

	require.NoError(t, err)
	assert.Equal(t, 9, out.ID)
	assert.Equal(t, float64(3), got["employee"])
}

func TestClient_Do_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       any
		wantMsg    string
		wantFields map[string][]string
	}{
		{
			name:   "message wins over detail",
			status: http.StatusBadRequest,
			body: gin.H{
				"message": "Validation failed. Please check the submitted data.",
				"detail":  "ignored",
				"errors":  gin.H{"email": []string{"employee with this email already exists.", "second"}},
			},
			wantMsg:    "Validation failed. Please check the submitted data.",
			wantFields: map[string][]string{"email": {"employee with this email already exists.", "second"}},
		},
		{
			name:    "detail when message absent",
			status:  http.StatusNotFound,
			body:    gin.H{"detail": "Not found."},
			wantMsg: "Not found.",
		},
		{
			name:    "status text when body is empty",
			status:  http.StatusInternalServerError,
			body:    nil,
			wantMsg: "Request failed with status code 500",
		},
		{
			name:       "string field errors become lists",
			status:     http.StatusBadRequest,
			body:       gin.H{"errors": gin.H{"date": "Cannot mark attendance for a future date."}},
			wantMsg:    "Request failed with status code 400",
			wantFields: map[string][]string{"date": {"Cannot mark attendance for a future date."}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newBackend(t, func(r *gin.Engine) {
				r.POST("/api/employees/", func(c *gin.Context) {
					if tt.body == nil {
						c.Status(tt.status)
						return
					}
					c.JSON(tt.status, tt.body)
				})
			})

			err := client.Post(context.Background(), "/employees/", map[string]string{}, nil)

			apiErr, ok := apiclient.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.FriendlyMessage)
			assert.Equal(t, tt.wantMsg, apiErr.Error())
			assert.Equal(t, tt.wantFields, apiErr.Errors)
			assert.Equal(t, tt.wantFields != nil, apiErr.HasFieldErrors())
		})
	}
}

func TestClient_Do_FirstFieldError(t *testing.T) {
	apiErr := &apiclient.Error{Errors: map[string][]string{"full_name": {"first", "second"}}}
	assert.Equal(t, "first", apiErr.FirstFieldError("full_name"))
	assert.Equal(t, "", apiErr.FirstFieldError("email"))
}

func TestClient_Do_NetworkError(t *testing.T) {
	client, srv := newBackend(t, func(r *gin.Engine) {})
	srv.Close()

	err := client.Delete(context.Background(), "/employees/42/")

	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNetwork())
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.FriendlyMessage)
	assert.Nil(t, apiErr.Errors)
}

func TestClient_Do_Timeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/dashboard/", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL + "/api", Timeout: 50 * time.Millisecond})
	start := time.Now()
	err := client.Get(context.Background(), "/dashboard/", nil, nil)

	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsTimeout())
	assert.Less(t, time.Since(start), 300*time.Millisecond)
}

func TestNew_Defaults(t *testing.T) {
	client := apiclient.New(apiclient.Config{})
	assert.Equal(t, apiclient.DefaultBaseURL, client.BaseURL())
}
