package errors

import (
	"net/http"
	"strings"
)

var ErrValidation = &Exception{
	Message:    "validation failed",
	StatusCode: http.StatusBadRequest,
}

// MissingFields reports required fields that were left empty.
func MissingFields(fields ...string) error {
	return ErrValidation.Wrapf("missing %s", strings.Join(fields, ", "))
}

func Invalid(field, reason string) error {
	return ErrValidation.Wrapf("%s %s", field, reason)
}
