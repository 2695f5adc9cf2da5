package errors

import "net/http"

var ErrNoSourceAudit = &Exception{
	Message:    "activity has no source audit",
	StatusCode: http.StatusNotFound,
}
