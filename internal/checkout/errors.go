package checkout

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrCartEmpty             ErrorCode = "CART_EMPTY"
	ErrPaymentMethodRequired ErrorCode = "PAYMENT_METHOD_REQUIRED"
	ErrPaymentMethodInvalid  ErrorCode = "PAYMENT_METHOD_INVALID"
	ErrDeliveryTypeInvalid   ErrorCode = "DELIVERY_TYPE_INVALID"
	ErrAddressIncomplete     ErrorCode = "ADDRESS_INCOMPLETE"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

func validationError(code ErrorCode, message string, details map[string]any) *Error {
	return &Error{Code: code, Message: message, StatusCode: http.StatusBadRequest, Details: details}
}

func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
