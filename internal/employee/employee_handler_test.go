package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hr-console/internal/apiclient"
	"hr-console/internal/employee"
	employeeerrors "hr-console/internal/employee/errors"
	"hr-console/internal/listview"
	"hr-console/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	ViewFn       func(ctx context.Context) (employee.ListView, error)
	SetFilterFn  func(ctx context.Context, f employee.Filter) (employee.ListView, error)
	RejectFormFn func(ctx context.Context, values employee.CreateEmployeeRequest, fields map[string][]string) employee.ListView
	CreateFn     func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.ListView, error)
	DeleteFn     func(ctx context.Context, id int64) (employee.ListView, error)
	DetailFn     func(ctx context.Context, id int64, params employee.HistoryParams) (employee.DetailView, error)
}

func (f *fakeEmployeeService) View(ctx context.Context) (employee.ListView, error) {
	return f.ViewFn(ctx)
}
func (f *fakeEmployeeService) SetFilter(ctx context.Context, filter employee.Filter) (employee.ListView, error) {
	return f.SetFilterFn(ctx, filter)
}
func (f *fakeEmployeeService) Refresh(ctx context.Context) (employee.ListView, error) {
	return f.ViewFn(ctx)
}
func (f *fakeEmployeeService) OpenForm(ctx context.Context) employee.ListView {
	return employee.ListView{Form: employee.FormState{Open: true}}
}
func (f *fakeEmployeeService) CloseForm(ctx context.Context) employee.ListView {
	return employee.ListView{}
}
func (f *fakeEmployeeService) RejectForm(ctx context.Context, values employee.CreateEmployeeRequest, fields map[string][]string) employee.ListView {
	return f.RejectFormFn(ctx, values, fields)
}
func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.ListView, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id int64) (employee.ListView, error) {
	return f.DeleteFn(ctx, id)
}
func (f *fakeEmployeeService) Detail(ctx context.Context, id int64, params employee.HistoryParams) (employee.DetailView, error) {
	return f.DetailFn(ctx, id, params)
}
func (f *fakeEmployeeService) Options(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeService) Subscribe() (<-chan employee.ListView, func()) {
	ch := make(chan employee.ListView)
	close(ch)
	return ch, func() {}
}

func init() {
	gin.SetMode(gin.TestMode)
	apperror.Init()
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestEmployeeHandler_View(t *testing.T) {
	svc := &fakeEmployeeService{
		ViewFn: func(ctx context.Context) (employee.ListView, error) {
			return employee.ListView{State: listview.StatePopulated, Employees: []employee.Employee{ana}, Total: 1}, nil
		},
	}
	h := employee.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/console/employees", nil)

	h.View(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ana Putri")
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestEmployeeHandler_SetFilter(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			SetFilterFn: func(ctx context.Context, f employee.Filter) (employee.ListView, error) {
				assert.Equal(t, employee.Filter{Search: "eng"}, f)
				return employee.ListView{Filter: f}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPut, "/employees/filter", strings.NewReader(`{"search":"eng"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.SetFilter(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown department", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{
			SetFilterFn: func(ctx context.Context, f employee.Filter) (employee.ListView, error) {
				return employee.ListView{}, employeeerrors.ErrInvalidDepartment
			},
		})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPut, "/employees/filter", strings.NewReader(`{"department":"Space"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.SetFilter(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decode(t, w).Error.Code)
	})
}

func TestEmployeeHandler_Create(t *testing.T) {
	body := `{"employee_id":"EMP-043","full_name":"Citra Lestari","email":"citra@corp.io","department":"Design"}`

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.ListView, error) {
				assert.Equal(t, "Citra Lestari", req.FullName)
				return employee.ListView{Total: 1}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("local validation keeps form open", func(t *testing.T) {
		var gotFields map[string][]string
		svc := &fakeEmployeeService{
			RejectFormFn: func(ctx context.Context, values employee.CreateEmployeeRequest, fields map[string][]string) employee.ListView {
				gotFields = fields
				return employee.ListView{Form: employee.FormState{Open: true}}
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"employee_id":"EMP-043","full_name":"C","email":"nope","department":"Design"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, apperror.CodeValidation, env.Error.Code)
		assert.Contains(t, string(env.Data), `"open":true`)
		assert.Contains(t, gotFields, "email")
		assert.Contains(t, gotFields, "full_name")
	})

	t.Run("api field errors map to validation error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.ListView, error) {
				return employee.ListView{Form: employee.FormState{Open: true}}, &apiclient.Error{
					StatusCode:      http.StatusBadRequest,
					FriendlyMessage: "Validation failed. Please check the submitted data.",
					Errors:          map[string][]string{"email": {"employee with this email already exists."}},
				}
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, apperror.CodeValidation, env.Error.Code)
		assert.Contains(t, string(env.Error.Details), "employee with this email already exists.")
	})

	t.Run("upstream down", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.ListView, error) {
				return employee.ListView{}, &apiclient.Error{FriendlyMessage: "dial tcp: connection refused"}
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, apperror.CodeServiceUnavailable, decode(t, w).Error.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DeleteFn: func(ctx context.Context, id int64) (employee.ListView, error) {
				assert.Equal(t, int64(42), id)
				return employee.ListView{}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/employees/42", nil)
		c.Params = gin.Params{{Key: "id", Value: "42"}}

		h.Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/employees/abc", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		h.Delete(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid employee ID")
	})
}

func TestEmployeeHandler_Detail(t *testing.T) {
	t.Run("passes history filter", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DetailFn: func(ctx context.Context, id int64, params employee.HistoryParams) (employee.DetailView, error) {
				assert.Equal(t, employee.HistoryParams{DateFrom: "2024-01-01", Status: "Absent"}, params)
				return employee.DetailView{Employee: budi}, nil
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees/42?date_from=2024-01-01&status=Absent", nil)
		c.Params = gin.Params{{Key: "id", Value: "42"}}

		h.Detail(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Budi Santoso")
	})

	t.Run("not found carries redirect hint", func(t *testing.T) {
		svc := &fakeEmployeeService{
			DetailFn: func(ctx context.Context, id int64, params employee.HistoryParams) (employee.DetailView, error) {
				return employee.DetailView{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/employees/7", nil)
		c.Params = gin.Params{{Key: "id", Value: "7"}}

		h.Detail(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"redirect":"/employees"`)
	})
}
