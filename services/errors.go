package services

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every ServiceError unwraps to exactly one of these so
// callers can branch with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal server error")
)

// ServiceError carries a user-facing message and optional per-field details.
type ServiceError struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(message string, fields map[string]string) *ServiceError {
	return &ServiceError{Kind: ErrValidation, Message: message, Fields: fields}
}

// Common errors
var (
	ErrInvalidCredentials = &ServiceError{Kind: ErrUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &ServiceError{Kind: ErrUnauthorized, Message: "Invalid or expired token"}
	ErrUserNotFound       = &ServiceError{Kind: ErrNotFound, Message: "User not found"}
	ErrEmailTaken         = &ServiceError{Kind: ErrConflict, Message: "An account with this email already exists"}

	ErrTaskNotFound       = &ServiceError{Kind: ErrNotFound, Message: "Task not found"}
	ErrParentNotFound     = &ServiceError{Kind: ErrValidation, Message: "Parent task not found"}
	ErrSubtasksIncomplete = &ServiceError{Kind: ErrConflict, Message: "Complete all subtasks first before starting or completing this task"}
	ErrStatusChanged      = &ServiceError{Kind: ErrConflict, Message: "Task status was changed by another request, please retry"}

	ErrCategoryNotFound = &ServiceError{Kind: ErrNotFound, Message: "Category not found"}
	ErrCategoryExists   = &ServiceError{Kind: ErrValidation, Message: "A category with this name already exists"}

	ErrInviteNotFound     = &ServiceError{Kind: ErrNotFound, Message: "Invite not found"}
	ErrInviteExpired      = &ServiceError{Kind: ErrValidation, Message: "Invite has expired"}
	ErrInviteLimitReached = &ServiceError{Kind: ErrValidation, Message: "Maximum of 10 invites per task reached"}
	ErrOwnInvite          = &ServiceError{Kind: ErrConflict, Message: "You cannot accept an invite to your own task"}

	ErrCollaboratorNotFound = &ServiceError{Kind: ErrNotFound, Message: "Collaborator not found"}
	ErrNotificationNotFound = &ServiceError{Kind: ErrNotFound, Message: "Notification not found"}

	ErrNoEligibleTasks = &ServiceError{Kind: ErrValidation, Message: "No eligible tasks"}
)

// ErrorCode maps an error to its wire code. Anything that is not a
// ServiceError is INTERNAL_ERROR.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	default:
		return "INTERNAL_ERROR"
	}
}
