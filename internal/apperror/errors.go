package apperror

import (
	"fmt"
	"net/http"
)

type Type int

const (
	TypeValidation   Type = iota // 400
	TypeUnauthorized             // 401
	TypeNotFound                 // 404
	TypeUnavailable              // 503
	TypeInternal                 // 500
)

type Error struct {
	Type    Type
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(field, message string) *Error {
	return &Error{Type: TypeValidation, Message: message, Field: field}
}

func Unauthorized(message string) *Error {
	return &Error{Type: TypeUnauthorized, Message: message}
}

func NotFound(entity string, err error) *Error {
	return &Error{Type: TypeNotFound, Message: fmt.Sprintf("%s not found", entity), Err: err}
}

func Unavailable(message string, err error) *Error {
	return &Error{Type: TypeUnavailable, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Type: TypeInternal, Message: message, Err: err}
}

func HTTPStatus(err *Error) int {
	switch err.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeNotFound:
		return http.StatusNotFound
	case TypeUnavailable:
		return http.StatusServiceUnavailable
	case TypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
