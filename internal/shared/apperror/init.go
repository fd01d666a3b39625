package apperror

import (
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// Today is the clock behind the notfuture tag. Dates are calendar days in UTC.
var Today = func() time.Time { return time.Now().UTC() }

func Init() {
	// Daftarkan fungsi kustom ke validator bawaan Gin
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			// Mengambil nama dari tag json (contoh: `json:"full_name"`)
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notfuture", notFuture)
	}
}

// notFuture accepts an empty string or a YYYY-MM-DD date that is not after today.
func notFuture(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return false
	}
	return d.Format(dateLayout) <= Today().Format(dateLayout)
}
