package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return codeOf(err)
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}
	return nil
}

// GetReason returns the MetaKeyReason entry, or "" when there is none
func GetReason(err error) string {
	reason, _ := GetMeta(err)[MetaKeyReason].(string)
	return reason
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// IsRetryable reports whether the failed request may be sent again as is
func IsRetryable(err error) bool {
	return err != nil && GetCode(err).Retryable()
}

// IsCanceled reports whether the caller gave up, by cancellation or deadline
func IsCanceled(err error) bool {
	code := GetCode(err)
	return code == CodeCanceled || code == CodeDeadlineExceeded
}

// Code predicates

func IsNotFound(err error) bool { return GetCode(err) == CodeNotFound }
func IsInvalidArgument(err error) bool { return GetCode(err) == CodeInvalidArgument }
func IsAlreadyExists(err error) bool { return GetCode(err) == CodeAlreadyExists }
func IsPermissionDenied(err error) bool { return GetCode(err) == CodePermissionDenied }
func IsFailedPrecondition(err error) bool { return GetCode(err) == CodeFailedPrecondition }
func IsAborted(err error) bool { return GetCode(err) == CodeAborted }
func IsInternal(err error) bool { return GetCode(err) == CodeInternal }
