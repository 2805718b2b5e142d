package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrRateLimited  = New("RATE_LIMITED", http.StatusTooManyRequests, "too many attempts")
)

// Scheduling domain errors.
var (
	ErrInvalidWindow         = New("INVALID_WINDOW", http.StatusBadRequest, "window end must not precede window start")
	ErrInvalidInterval       = New("INVALID_INTERVAL", http.StatusBadRequest, "end time must be after start time")
	ErrPastBooking           = New("PAST_BOOKING", http.StatusBadRequest, "cannot book meetings in the past")
	ErrUserNotFound          = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	ErrParticipantNotFound   = New("PARTICIPANT_NOT_FOUND", http.StatusNotFound, "mentor or mentee not found")
	ErrConnectionNotFound    = New("CONNECTION_NOT_FOUND", http.StatusNotFound, "connection not found")
	ErrMeetingNotFound       = New("MEETING_NOT_FOUND", http.StatusNotFound, "meeting not found")
	ErrRoleMismatch          = New("ROLE_MISMATCH", http.StatusUnprocessableEntity, "participant role does not match")
	ErrParticipantMismatch   = New("PARTICIPANT_MISMATCH", http.StatusUnprocessableEntity, "participants do not match the connection")
	ErrConnectionNotAccepted = New("CONNECTION_NOT_ACCEPTED", http.StatusPreconditionFailed, "connection is not accepted")
	ErrSlotUnavailable       = New("SLOT_UNAVAILABLE", http.StatusConflict, "requested slot is not available")
	ErrBookingConflict       = New("BOOKING_CONFLICT", http.StatusConflict, "slot conflicts with an existing meeting")
	ErrInvalidState          = New("INVALID_STATE", http.StatusConflict, "only scheduled meetings can be cancelled")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
