package errors

import "net/http"

var ErrActivityNotFound = &Exception{
	Message:    "activity not found",
	StatusCode: http.StatusNotFound,
}
