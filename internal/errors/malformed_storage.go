package errors

import "net/http"

var ErrMalformedStorage = &Exception{
	Message:    "stored value is malformed",
	StatusCode: http.StatusInternalServerError,
}

func MalformedStorage(key string, cause error) error {
	return ErrMalformedStorage.Wrapf("key %q: %v", key, cause)
}
