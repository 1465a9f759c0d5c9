// Package validator wraps go-playground struct validation behind the
// application's error taxonomy. Models declare their rules with `validate`
// tags; services call Check and hand the result straight back to the caller.
package validator

import (
	"go-erp-ws/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError is one failed rule on one struct field.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// "required" treats uuid.Nil as present, so foreign keys get their own
	// tag that rejects the zero UUID.
	v.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uuid.UUID)
		return ok && id != uuid.Nil
	})
	return v
}

// ValidateStruct runs every tagged rule on data and reports all failures.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "struct", Tag: "invalid"}}
	}
	fields := make([]FieldError, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, FieldError{
			Field: v.StructNamespace(),
			Tag:   v.Tag(),
			Param: v.Param(),
		})
	}
	return fields
}

// Check folds the first failure into a validation error suitable for
// returning to API callers. Services that do not care about the full
// failure list use this form.
func Check(data interface{}) error {
	fields := ValidateStruct(data)
	if len(fields) == 0 {
		return nil
	}
	return apperr.Validationf("field '%s' failed on tag '%s'", fields[0].Field, fields[0].Tag)
}
