package errors

import "net/http"

var ErrConfirmationRequired = &Exception{
	Message:    "deletion must be confirmed",
	StatusCode: http.StatusPreconditionRequired,
}
