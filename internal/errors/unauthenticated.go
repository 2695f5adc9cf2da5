package errors

import "net/http"

var ErrUnauthenticated = &Exception{
	Message:    "an authenticated user is required",
	StatusCode: http.StatusUnauthorized,
}
