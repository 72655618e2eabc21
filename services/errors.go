package services

import "fmt"

// Service errors carry the user-facing message; controllers map each type to
// its HTTP status (404, 409, 400, 401).

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func notFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func unauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}
