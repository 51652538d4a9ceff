package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
)

// Code classifies a failure. Codes mirror the gRPC codes the handler maps
// them to.
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

var grpcCodes = map[Code]codes.Code{
	CodeOK:                 codes.OK,
	CodeCanceled:           codes.Canceled,
	CodeDeadlineExceeded:   codes.DeadlineExceeded,
	CodeInvalidArgument:    codes.InvalidArgument,
	CodeNotFound:           codes.NotFound,
	CodeAlreadyExists:      codes.AlreadyExists,
	CodePermissionDenied:   codes.PermissionDenied,
	CodeFailedPrecondition: codes.FailedPrecondition,
	CodeAborted:            codes.Aborted,
	CodeInternal:           codes.Internal,
	CodeUnavailable:        codes.Unavailable,
}

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// GRPCCode returns the corresponding gRPC code
func (c Code) GRPCCode() codes.Code {
	if gc, ok := grpcCodes[c]; ok {
		return gc
	}
	return codes.Unknown
}

// Retryable reports whether the same request may succeed if sent again.
// Aborted is a lost version race on a character or party.
func (c Code) Retryable() bool {
	return c == CodeAborted || c == CodeUnavailable
}

func grpcCodeToCode(grpcCode codes.Code) Code {
	for c, gc := range grpcCodes {
		if gc == grpcCode {
			return c
		}
	}
	return CodeInternal
}

// codeOf classifies errors that are not an *Error. Context errors keep their
// meaning so a request abandoned while waiting on a party lock is not
// reported as an internal failure.
func codeOf(err error) Code {
	switch {
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeDeadlineExceeded
	default:
		return CodeInternal
	}
}
