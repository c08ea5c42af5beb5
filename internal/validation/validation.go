// Package validation checks procedure inputs against their declared bounds.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"glowup/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so clients see the keys they sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// PostgreSQL text columns cannot store NUL bytes.
	if err := v.RegisterValidation("nonul", noNUL); err != nil {
		panic(err)
	}
	return v
}

func noNUL(fl validator.FieldLevel) bool {
	return !strings.ContainsRune(fl.Field().String(), 0)
}

// Struct validates s using its `validate` tags. A failure is returned as a
// VALIDATION_ERROR AppError listing every offending field.
func Struct(s interface{}) error {
	return translate(validate.Struct(s))
}

// Var validates a single value under the given field name.
func Var(field string, value interface{}, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(err.Error())
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError(field, fe))
	}
	return models.NewFieldValidationError(fields)
}

// Merge combines several validation errors into one. Nil entries are skipped.
func Merge(errs ...error) error {
	var fields []models.FieldError
	for _, err := range errs {
		if err == nil {
			continue
		}
		appErr, ok := models.AsAppError(err)
		if !ok || appErr.Code != models.CodeValidation {
			return err
		}
		if len(appErr.Fields) == 0 {
			fields = append(fields, models.FieldError{Rule: "invalid", Message: appErr.Message})
			continue
		}
		fields = append(fields, appErr.Fields...)
	}
	if len(fields) == 0 {
		return nil
	}
	return models.NewFieldValidationError(fields)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return models.NewValidationError(err.Error())
	}
	fields := make([]models.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError(fieldPath(fe), fe))
	}
	return models.NewFieldValidationError(fields)
}

// fieldPath drops the root struct name from the namespace: "CreateRoutineInput.steps[1]" -> "steps[1]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldError(field string, fe validator.FieldError) models.FieldError {
	return models.FieldError{
		Field:   field,
		Rule:    fe.Tag(),
		Param:   fe.Param(),
		Message: message(field, fe),
	}
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "nonul":
		return fmt.Sprintf("%s must not contain NUL characters", field)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, snakeCase(fe.Param()))
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
		case reflect.Slice, reflect.Array, reflect.Map:
			return fmt.Sprintf("%s must contain %s %s items", field, bound, fe.Param())
		default:
			return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
		}
	default:
		return fmt.Sprintf("%s failed the %q rule", field, fe.Tag())
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1]) && i > 0 && unicode.IsUpper(runes[i-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
