package errors

import "net/http"

var ErrActivityIDRequired = &Exception{
	Message:    "activity id is required",
	StatusCode: http.StatusBadRequest,
}
