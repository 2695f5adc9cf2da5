package errors

import "net/http"

var ErrActivityCompleted = &Exception{
	Message:    "activity is completed",
	StatusCode: http.StatusConflict,
}
