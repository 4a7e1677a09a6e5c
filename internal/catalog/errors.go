package catalog

import (
	"errors"
	"net/http"
)

type ErrorCode string

const (
	ErrDishNotFound       ErrorCode = "DISH_NOT_FOUND"
	ErrNoDishes           ErrorCode = "NO_DISHES"
	ErrIngredientNotFound ErrorCode = "INGREDIENT_NOT_FOUND"
	ErrInvalidIngredients ErrorCode = "INVALID_INGREDIENT_IDS"
	ErrTooFewIngredients  ErrorCode = "TOO_FEW_INGREDIENTS"
	ErrIngredientInUse    ErrorCode = "INGREDIENT_IN_USE"
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
)

const minIngredientsPerDish = 2

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code ErrorCode, message string, status int) *Error {
	return &Error{Code: code, Message: message, StatusCode: status}
}

func notFound(code ErrorCode, message string) *Error {
	return newError(code, message, http.StatusNotFound)
}

func invalid(code ErrorCode, message string) *Error {
	return newError(code, message, http.StatusBadRequest)
}

// AsError unwraps a catalog *Error from err.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	ce, ok := AsError(err)
	return ok && ce.StatusCode == http.StatusNotFound
}
