package errors

import (
	"errors"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func IsNotFound(err error) bool {
	return hasStatusCode(err, http.StatusNotFound)
}

func IsConflict(err error) bool {
	return hasStatusCode(err, http.StatusConflict)
}

func hasStatusCode(err error, code int) bool {
	var e *ErrorWithStatusCode
	return errors.As(err, &e) && e.StatusCode == code
}
