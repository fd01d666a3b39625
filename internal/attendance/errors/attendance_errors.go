package attendanceerrors

import (
	"hr-console/internal/shared/apperror"
	"net/http"
)

var (
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid attendance record ID",
		http.StatusBadRequest,
	)
	ErrFormClosed = apperror.New(
		apperror.CodeInvalidState,
		"Mark attendance form is not open",
		http.StatusConflict,
	)
	ErrUnknownEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"Employee is not in the selector",
		http.StatusBadRequest,
	)
)
