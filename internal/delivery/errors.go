package delivery

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrOrderNotFound      ErrorCode = "ORDER_NOT_FOUND"
	ErrInvalidTransition  ErrorCode = "INVALID_TRANSITION"
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
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func errNotFound() *Error {
	return &Error{Code: ErrOrderNotFound, Message: "Order not found", StatusCode: http.StatusNotFound}
}

func errInvalidTransition(from, to Status) *Error {
	return &Error{
		Code:       ErrInvalidTransition,
		Message:    "Cannot move order from " + string(from) + " to " + string(to),
		StatusCode: http.StatusConflict,
	}
}
