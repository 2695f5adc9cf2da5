package errors

import "net/http"

var ErrForbidden = &Exception{
	Message:    "permission denied",
	StatusCode: http.StatusForbidden,
}

func MissingPermission(permission string) error {
	return ErrForbidden.Wrapf("%s required", permission)
}
