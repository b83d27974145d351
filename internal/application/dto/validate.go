package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Builder-Lawyers/builder-admin/internal/application/errs"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks req against its validate tags and reports every failing
// field as an errs.ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return errs.ValidationError{Message: err.Error()}
	}
	fields := make([]errs.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		fields = append(fields, errs.FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return errs.ValidationError{Message: "invalid request", Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "fqdn":
		return "must be a valid domain name"
	case "oneof":
		return "must be one of " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	}
	return "failed " + fe.Tag() + " check"
}
