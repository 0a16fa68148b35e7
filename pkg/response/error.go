package response

import "net/http"

// HTTPError is an error that carries the status it should be reported with.
type HTTPError struct {
	Status  int
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates an HTTPError whose error code mirrors the status.
func NewHTTPError(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Code: status, Message: message}
}

// BadRequest wraps a validation failure.
func BadRequest(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, err.Error())
}
