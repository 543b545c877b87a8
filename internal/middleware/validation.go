package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes binding errors report JSON field names.
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// ValidationMessage returns a human-readable message for a binding failure.
// Request bodies only declare required fields; struct-level checks run in
// the quote validator.
func ValidationMessage(e validator.FieldError) string {
	if e.Tag() == "required" {
		return "this field is required"
	}
	return "invalid value"
}
