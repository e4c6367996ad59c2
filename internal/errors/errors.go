package errors

import (
	"errors"
	"fmt"
)

// Marks are sentinel errors attached to every InternalError via Mark.
// Callers classify errors with errors.Is against these values.
var (
	ErrValidation          = errors.New("validation_error")
	ErrNotFound            = errors.New("not_found")
	ErrAlreadyExists       = errors.New("already_exists")
	ErrConflict            = errors.New("conflict")
	ErrInvalidTransition   = errors.New("invalid_transition")
	ErrStaleState          = errors.New("stale_state")
	ErrUnconfiguredPricing = errors.New("unconfigured_pricing")
	ErrPermissionDenied    = errors.New("permission_denied")
	ErrDatabase            = errors.New("database_error")
	ErrSystem              = errors.New("system_error")
)

// InternalError is the error type produced by this package. It carries a
// developer-facing message, an optional user-facing hint, structured details
// safe to report to API consumers, a classification mark and the wrapped cause.
type InternalError struct {
	Message           string
	Hint              string
	ReportableDetails map[string]any
	mark              error
	cause             error
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.cause.Error())
	}
	return e.Message
}

// Unwrap exposes both the classification mark and the wrapped cause so that
// errors.Is works against either.
func (e *InternalError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.mark != nil {
		out = append(out, e.mark)
	}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

// ErrorBuilder builds an InternalError. The chain terminates with Mark, which
// classifies the error and returns it as a plain error.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts a builder with the given message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{Message: message}}
}

// NewErrorf starts a builder with a formatted message.
func NewErrorf(format string, args ...any) *ErrorBuilder {
	return NewError(fmt.Sprintf(format, args...))
}

// WithError starts a builder wrapping an existing cause.
func WithError(err error) *ErrorBuilder {
	var internal *InternalError
	if errors.As(err, &internal) {
		// Preserve hint and details when re-wrapping our own errors.
		return &ErrorBuilder{err: &InternalError{
			Message:           internal.Message,
			Hint:              internal.Hint,
			ReportableDetails: internal.ReportableDetails,
			cause:             err,
		}}
	}
	message := "internal error"
	if err != nil {
		message = err.Error()
	}
	return &ErrorBuilder{err: &InternalError{Message: message, cause: err}}
}

// WithHint attaches a user-facing hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.Hint = hint
	return b
}

// WithHintf attaches a formatted user-facing hint.
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err.Hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details that are safe to surface
// to API consumers.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	b.err.ReportableDetails = details
	return b
}

// Mark classifies the error and finalizes the builder.
func (b *ErrorBuilder) Mark(mark error) error {
	b.err.mark = mark
	return b.err
}

// Hint returns the user-facing hint of err, or its message when no hint was
// attached, or a generic fallback for foreign errors.
func Hint(err error) string {
	var internal *InternalError
	if errors.As(err, &internal) {
		if internal.Hint != "" {
			return internal.Hint
		}
		return internal.Message
	}
	return "An unexpected error occurred"
}

// Details returns the reportable details of err, if any.
func Details(err error) map[string]any {
	var internal *InternalError
	if errors.As(err, &internal) {
		return internal.ReportableDetails
	}
	return nil
}

func IsValidation(err error) bool          { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool       { return errors.Is(err, ErrAlreadyExists) }
func IsConflict(err error) bool            { return errors.Is(err, ErrConflict) }
func IsInvalidTransition(err error) bool   { return errors.Is(err, ErrInvalidTransition) }
func IsStaleState(err error) bool          { return errors.Is(err, ErrStaleState) }
func IsUnconfiguredPricing(err error) bool { return errors.Is(err, ErrUnconfiguredPricing) }
func IsPermissionDenied(err error) bool    { return errors.Is(err, ErrPermissionDenied) }
func IsDatabase(err error) bool            { return errors.Is(err, ErrDatabase) }
