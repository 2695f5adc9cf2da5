package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Exception is an error that knows the HTTP status it is reported with.
// The package's sentinels are matched with errors.Is after Wrapf adds detail.
type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// Wrapf appends detail to the exception's message and keeps the exception
// in the chain.
func (e *Exception) Wrapf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}

// StatusCode reports the status of the first Exception in err's chain, or
// 500 when there is none.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
