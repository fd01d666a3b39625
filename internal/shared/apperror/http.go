package apperror

import (
	"errors"
	"net/http"
)

// UpstreamError is implemented by errors that already carry a normalized HR API failure.
type UpstreamError interface {
	error
	Status() int
	Friendly() string
	FieldErrors() map[string][]string
}

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error returned by a page or facade into a response shape.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		he := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if len(appErr.Fields) > 0 {
			he.Details = appErr.Fields
		}
		return he
	}

	var upErr UpstreamError
	if errors.As(err, &upErr) {
		status := upErr.Status()
		code := CodeUpstreamError
		switch {
		case status == 0:
			status = http.StatusBadGateway
			code = CodeServiceUnavailable
		case status == http.StatusNotFound:
			code = CodeNotFound
		case status == http.StatusConflict:
			code = CodeConflict
		case status >= 400 && status < 500 && len(upErr.FieldErrors()) > 0:
			code = CodeValidation
		case status >= 500:
			status = http.StatusBadGateway
		}
		he := HTTPError{Status: status, Code: code, Message: upErr.Friendly()}
		if fields := upErr.FieldErrors(); len(fields) > 0 {
			he.Details = fields
		}
		return he
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
