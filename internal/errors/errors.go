package errors

import (
	"errors"
	"fmt"
	"strings"
)

// MetaKeyReason names the metadata entry carrying a machine-readable reason,
// such as why a party operation was refused.
const MetaKeyReason = "reason"

// Error is the coded error every layer returns. Handlers translate it to a
// gRPC status with ToGRPCError.
type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"-"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error carrying the same code, so
// errors.Is(err, errors.NotFound("")) works regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

// WithMeta attaches a key/value pair and returns e for chaining
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	e.Meta[key] = value
	return e
}

// WithReason records a machine-readable reason under MetaKeyReason
func (e *Error) WithReason(reason string) *Error {
	return e.WithMeta(MetaKeyReason, reason)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap adds context to err. A wrapped *Error keeps its code and metadata;
// context errors become Canceled or DeadlineExceeded; anything else is
// Internal.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := &Error{Code: codeOf(err), Message: message, Cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		wrapped.Code = inner.Code
		wrapped.Meta = inner.Meta
	}
	return wrapped
}

func Wrapf(err error, format string, args ...any) *Error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode is Wrap with the code overridden
func WrapWithCode(err error, code Code, message string) *Error {
	wrapped := Wrap(err, message)
	if wrapped != nil {
		wrapped.Code = code
	}
	return wrapped
}

// Constructors, one per code the service produces.

func NotFound(message string) *Error           { return New(CodeNotFound, message) }
func InvalidArgument(message string) *Error    { return New(CodeInvalidArgument, message) }
func AlreadyExists(message string) *Error      { return New(CodeAlreadyExists, message) }
func PermissionDenied(message string) *Error   { return New(CodePermissionDenied, message) }
func FailedPrecondition(message string) *Error { return New(CodeFailedPrecondition, message) }
func Internal(message string) *Error           { return New(CodeInternal, message) }
func Unavailable(message string) *Error        { return New(CodeUnavailable, message) }

// Aborted reports a lost optimistic-concurrency race. Stores return it for
// stale writes and callers may retry.
func Aborted(message string) *Error { return New(CodeAborted, message) }

func NotFoundf(format string, args ...any) *Error {
	return Newf(CodeNotFound, format, args...)
}

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func FailedPreconditionf(format string, args ...any) *Error {
	return Newf(CodeFailedPrecondition, format, args...)
}

func Abortedf(format string, args ...any) *Error {
	return Newf(CodeAborted, format, args...)
}
