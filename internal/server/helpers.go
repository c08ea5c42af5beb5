package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"

	"glowup/internal/models"
)

// decodeInput unmarshals a procedure's JSON input into dst. Empty input
// leaves dst at its zero value so validation reports the missing fields.
func decodeInput(raw []byte, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return models.NewValidationError(fmt.Sprintf("Invalid input: %s", describeJSONError(err)))
	}
	return nil
}

// decodeID reads an id given either as a bare JSON number or as an object
// holding it under key.
func decodeID(raw []byte, key string) (uint, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, idError(key, "required", key+" is required")
	}

	if raw[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return 0, models.NewValidationError(fmt.Sprintf("Invalid input: %s", describeJSONError(err)))
		}
		v, ok := obj[key]
		if !ok {
			return 0, idError(key, "required", key+" is required")
		}
		raw = v
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, idError(key, "number", key+" must be a number")
	}
	if n < 0 || n != math.Trunc(n) || n > math.MaxUint32 {
		return 0, idError(key, "integer", key+" must be a positive integer")
	}
	return uint(n), nil
}

func idError(key, rule, msg string) error {
	return models.NewFieldValidationError([]models.FieldError{{Field: key, Rule: rule, Message: msg}})
}

func describeJSONError(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("%s must be %s", typeErr.Field, jsonKind(typeErr.Type))
		}
		return "expected " + jsonKind(typeErr.Type)
	case errors.As(err, &syntaxErr):
		return "malformed JSON"
	default:
		return err.Error()
	}
}

// jsonKind names a Go type the way a JSON client thinks of it.
func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}
