package domain

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorType is the stable discriminant clients branch on.
type ErrorType string

const (
	ErrorValidation      ErrorType = "VALIDATION_ERROR"
	ErrorNotFound        ErrorType = "NOT_FOUND"
	ErrorUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorForbidden       ErrorType = "FORBIDDEN"
	ErrorConflict        ErrorType = "CONFLICT"
	ErrorDatabase        ErrorType = "DATABASE_ERROR"
	ErrorExternalService ErrorType = "EXTERNAL_SERVICE_ERROR"
	ErrorInternal        ErrorType = "INTERNAL_SERVER_ERROR"
)

// FieldViolation is one failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// AppError is an expected business failure carried back to the transport
// layer as a value. Only the fields relevant to Type are populated.
type AppError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Component  string
	Timestamp  time.Time

	Errors []FieldViolation

	Resource   string
	LookupKey  string
	ResourceID string

	ConflictingField string
	ExistingValue    any

	Operation  string
	Table      string
	NativeCode string

	Service            string
	Reason             string
	RequiredPermission string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, status int, message, component string) *AppError {
	return &AppError{
		Type:       t,
		StatusCode: status,
		Message:    message,
		Component:  component,
		Timestamp:  time.Now().UTC(),
	}
}

// NewValidationError reports every violated rule, not just the first.
func NewValidationError(message string, violations []FieldViolation, component string) *AppError {
	e := newAppError(ErrorValidation, http.StatusUnprocessableEntity, message, component)
	if violations == nil {
		violations = []FieldViolation{}
	}
	e.Errors = violations
	return e
}

// NewNotFoundError identifies the resource kind and the key/value used for the lookup.
func NewNotFoundError(message, resource, key, value, component string) *AppError {
	e := newAppError(ErrorNotFound, http.StatusNotFound, message, component)
	e.Resource = resource
	e.LookupKey = key
	e.ResourceID = value
	return e
}

func NewConflictError(message, field string, existing any, component string) *AppError {
	e := newAppError(ErrorConflict, http.StatusConflict, message, component)
	e.ConflictingField = field
	e.ExistingValue = existing
	return e
}

func NewDatabaseError(message, operation, table, component string) *AppError {
	e := newAppError(ErrorDatabase, http.StatusInternalServerError, message, component)
	e.Operation = operation
	e.Table = table
	return e
}

func NewUnauthorizedError(message, reason, component string) *AppError {
	e := newAppError(ErrorUnauthorized, http.StatusUnauthorized, message, component)
	e.Reason = reason
	return e
}

func NewForbiddenError(message, permission, component string) *AppError {
	e := newAppError(ErrorForbidden, http.StatusForbidden, message, component)
	e.RequiredPermission = permission
	return e
}

func NewExternalServiceError(message, service, operation, component string) *AppError {
	e := newAppError(ErrorExternalService, http.StatusBadGateway, message, component)
	e.Service = service
	e.Operation = operation
	return e
}

func NewInternalError(message, component string) *AppError {
	return newAppError(ErrorInternal, http.StatusInternalServerError, message, component)
}
