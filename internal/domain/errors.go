package domain

import (
	"errors"
	"net/http"
)

// Error kinds. Match with errors.Is against a *SyncError or a wrapped adapter error.
var (
	ErrValidation           = errors.New("validation failed")
	ErrAuthentication       = errors.New("crm authentication failed")
	ErrUpstream             = errors.New("crm upstream error")
	ErrAmbiguous            = errors.New("ambiguous match")
	ErrConflict             = errors.New("conflict")
	ErrNotificationDelivery = errors.New("notification delivery failed")
)

// SyncError is a terminal failure of a signup. Reason is safe to show to the caller;
// Err is the underlying cause and is only logged. Notice, when set, replaces Reason
// in the operator notification.
type SyncError struct {
	Kind   error
	Status int
	Reason string
	Notice string
	Err    error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *SyncError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NotificationText is the message sent to the notifier for this failure.
func (e *SyncError) NotificationText() string {
	if e.Notice != "" {
		return e.Notice
	}
	return e.Reason
}

// WithNotice sets the operator-facing message and returns e.
func (e *SyncError) WithNotice(notice string) *SyncError {
	e.Notice = notice
	return e
}

// Notifiable reports whether the failure should be sent to the notifier.
// Input validation failures are the caller's problem and are not reported.
func (e *SyncError) Notifiable() bool {
	return !errors.Is(e.Kind, ErrValidation)
}

// NewValidationError returns a 400 validation failure.
func NewValidationError(reason string) *SyncError {
	return &SyncError{Kind: ErrValidation, Status: http.StatusBadRequest, Reason: reason}
}

// NewRequestRejectedError returns a 404 transport-level rejection.
func NewRequestRejectedError(reason string) *SyncError {
	return &SyncError{Kind: ErrValidation, Status: http.StatusNotFound, Reason: reason}
}

// NewAuthenticationError returns a 500 CRM login failure.
func NewAuthenticationError(reason string, err error) *SyncError {
	return &SyncError{Kind: ErrAuthentication, Status: http.StatusInternalServerError, Reason: reason, Err: err}
}

// NewUpstreamError returns a 500 CRM call failure.
func NewUpstreamError(reason string, err error) *SyncError {
	return &SyncError{Kind: ErrUpstream, Status: http.StatusInternalServerError, Reason: reason, Err: err}
}

// NewAmbiguityError returns a failure for a lookup that did not yield exactly one record.
func NewAmbiguityError(status int, reason string) *SyncError {
	return &SyncError{Kind: ErrAmbiguous, Status: status, Reason: reason}
}

// NewConflictError returns a 500 for a record that already exists.
func NewConflictError(reason string) *SyncError {
	return &SyncError{Kind: ErrConflict, Status: http.StatusInternalServerError, Reason: reason}
}
