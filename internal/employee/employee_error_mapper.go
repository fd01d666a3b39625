package employee

import (
	"net/http"

	"hr-console/internal/apiclient"
	employeeerrors "hr-console/internal/employee/errors"
)

// mapRepositoryError turns an upstream 404 into the module's not-found error and leaves
// every other failure (including field-level validation) untouched.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if apiErr, ok := apiclient.AsError(err); ok && apiErr.StatusCode == http.StatusNotFound {
		return employeeerrors.ErrEmployeeNotFound
	}

	return err
}
