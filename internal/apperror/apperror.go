package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrDependency      = errors.New("dependency failure")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrUnauthorized    = errors.New("unauthorized")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found.", resource, id),
	}
}

func NotFoundMsg(message string) *AppError {
	return &AppError{Err: ErrNotFound, Message: message}
}

func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

func InvalidArgument(message string) *AppError {
	return &AppError{Err: ErrInvalidArgument, Message: message}
}

func PayloadTooLarge(message string) *AppError {
	return &AppError{Err: ErrPayloadTooLarge, Message: message}
}

func Dependency(op string, err error) *AppError {
	return &AppError{
		Err:     ErrDependency,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}

func InvalidCredentials() *AppError {
	return &AppError{Err: ErrUnauthorized, Message: "Invalid credentials."}
}

func InvalidToken() *AppError {
	return &AppError{
		Err:     ErrInvalidToken,
		Message: "Invalid or expired password reset token.",
	}
}
