package apperror_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"hr-console/internal/shared/apperror"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstreamErr struct {
	status int
	fields map[string][]string
}

func (e upstreamErr) Error() string                    { return "upstream" }
func (e upstreamErr) Status() int                      { return e.status }
func (e upstreamErr) Friendly() string                 { return "friendly" }
func (e upstreamErr) FieldErrors() map[string][]string { return e.fields }

func TestToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app error", err: apperror.ErrInvalidState, wantStatus: http.StatusConflict, wantCode: apperror.CodeInvalidState},
		{name: "network failure", err: upstreamErr{status: 0}, wantStatus: http.StatusBadGateway, wantCode: apperror.CodeServiceUnavailable},
		{name: "upstream not found", err: upstreamErr{status: 404}, wantStatus: http.StatusNotFound, wantCode: apperror.CodeNotFound},
		{name: "upstream field errors", err: upstreamErr{status: 400, fields: map[string][]string{"email": {"taken"}}}, wantStatus: http.StatusBadRequest, wantCode: apperror.CodeValidation},
		{name: "upstream 500", err: upstreamErr{status: 500}, wantStatus: http.StatusBadGateway, wantCode: apperror.CodeUpstreamError},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: apperror.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperror.ToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

type form struct {
	FullName string `json:"full_name" binding:"required"`
	Status   string `json:"status" binding:"oneof=Present Absent"`
}

func TestMapValidationError(t *testing.T) {
	apperror.Init()

	err := binding.Validator.ValidateStruct(&form{Status: "Late"})
	require.Error(t, err)

	mapped := apperror.MapValidationError(err)

	var appErr *apperror.AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, []string{"Full Name is required"}, appErr.Fields["full_name"])
	assert.Equal(t, []string{"Status must be one of: Present, Absent"}, appErr.Fields["status"])
}

type markForm struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02,notfuture"`
}

func TestNotFutureDate(t *testing.T) {
	apperror.Init()
	orig := apperror.Today
	apperror.Today = func() time.Time { return time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { apperror.Today = orig })

	assert.NoError(t, binding.Validator.ValidateStruct(&markForm{Date: "2024-01-15"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&markForm{Date: "2023-12-31"}))

	err := binding.Validator.ValidateStruct(&markForm{Date: "2024-01-16"})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, apperror.MapValidationError(err), &appErr)
	assert.Equal(t, []string{"Date cannot be in the future."}, appErr.Fields["date"])
}

func TestMapValidationError_NotValidation(t *testing.T) {
	mapped := apperror.MapValidationError(errors.New("unexpected EOF"))

	got := apperror.ToHTTP(mapped)
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, apperror.CodeInvalidInput, got.Code)
}
