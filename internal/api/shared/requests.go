package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies; a task is three short fields.
const maxBodyBytes = 1 << 20

// errTrailingData is reported when the body holds more than one JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// Global validator instance for reuse. Field names in errors follow the
// json tags so messages match the wire format.
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

// DecodeError reports a request body that is not valid JSON for the target.
type DecodeError struct {
	// Field is set when a value had the wrong JSON type.
	Field string
	Err   error
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request body: field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid request body: %v", e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeJSON decodes the request body into the given struct. The body must
// hold exactly one JSON value. Failures are returned as *DecodeError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := r.Body
	if w != nil {
		body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	}
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &DecodeError{Field: typeErr.Field, Err: err}
		}
		return &DecodeError{Err: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return &DecodeError{Err: err}
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
// Types with a Validate() error method validate themselves.
func ValidateRequest(v interface{}) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	return validate.Struct(v)
}
