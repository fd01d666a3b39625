package notify

import (
	"net/http"

	"hr-console/internal/shared/apperror"
)

var ErrToastNotFound = apperror.New(
	apperror.CodeNotFound,
	"Notification not found",
	http.StatusNotFound,
)
