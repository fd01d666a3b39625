package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	// 1. Ganti underscore dengan spasi (full_name -> full name)
	s = strings.ReplaceAll(s, "_", " ")

	// 2. Ubah jadi Title Case (full name -> Full Name)
	caser := cases.Title(language.English)
	return caser.String(s)
}

func fieldMessage(e validator.FieldError) string {
	name := formatFieldName(e.Field())
	switch e.Tag() {
	case "required":
		return RequiredField(name).Message
	case "email":
		return "Enter a valid email address."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.ReplaceAll(e.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD).", name)
	case "notfuture":
		return fmt.Sprintf("%s cannot be in the future.", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", name, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", name, e.Param())
	default:
		return InvalidField(name).Message
	}
}

// MapValidationError converts binding errors into the same field map the HR API returns on
// a 400, so forms render one shape regardless of where validation failed.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fields := make(map[string][]string, len(errs))
		for _, e := range errs {
			// e.Field() sudah berupa nama json karena RegisterTagNameFunc di Init()
			fields[e.Field()] = append(fields[e.Field()], fieldMessage(e))
		}
		return New(
			CodeValidation,
			fieldMessage(errs[0]),
			http.StatusBadRequest,
		).WithFields(fields)
	}

	return Wrap(
		err,
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
