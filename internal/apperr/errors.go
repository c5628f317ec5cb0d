package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// AppError is implemented by every error that knows its HTTP representation.
type AppError interface {
	error
	HTTPStatus() int
	Code() string
}

var (
	ErrNotFound     = errors.New("resource not found")
	ErrForbidden    = errors.New("access forbidden")
	ErrUnauthorized = errors.New("user not authenticated")
	ErrConflict     = errors.New("conflict")
)

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }
func (e *NotFoundError) Code() string    { return "NOT_FOUND" }
func (e *NotFoundError) Unwrap() error   { return ErrNotFound }

func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }
func (e *ValidationError) Code() string    { return "VALIDATION_ERROR" }

func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return ErrForbidden.Error()
	}
	return e.Message
}

func (e *ForbiddenError) HTTPStatus() int { return http.StatusForbidden }
func (e *ForbiddenError) Code() string    { return "FORBIDDEN" }
func (e *ForbiddenError) Unwrap() error   { return ErrForbidden }

func Forbidden(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return ErrUnauthorized.Error()
	}
	return e.Message
}

func (e *UnauthorizedError) HTTPStatus() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Code() string    { return "UNAUTHORIZED" }
func (e *UnauthorizedError) Unwrap() error   { return ErrUnauthorized }

func Unauthorized(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string   { return e.Message }
func (e *ConflictError) HTTPStatus() int { return http.StatusConflict }
func (e *ConflictError) Code() string    { return "CONFLICT" }
func (e *ConflictError) Unwrap() error   { return ErrConflict }

func Conflict(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// Postgres SQLSTATE codes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
