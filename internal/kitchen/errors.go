package kitchen

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	ErrInvalidStatus      ErrorCode = "INVALID_STATUS"
	ErrActionNotAvailable ErrorCode = "ACTION_NOT_AVAILABLE"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

func AsError(err error) (*Error, bool) {
	var ke *Error
	if errors.As(err, &ke) {
		return ke, true
	}
	return nil, false
}

func errNotFound() *Error {
	return &Error{Code: ErrOrderNotFound, Message: "Order not found", StatusCode: http.StatusNotFound}
}
