package errors

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrValidation           = fmt.Errorf("validation failed")
	ErrNotAuthorized        = fmt.Errorf("not authorized for this conversation")
	ErrConversationNotFound = fmt.Errorf("conversation not found")
	ErrStoreUnavailable     = fmt.Errorf("store unavailable")
	ErrSubscriptionLost     = fmt.Errorf("push channel subscription lost")
	ErrSessionClosed        = fmt.Errorf("chat session closed")
	ErrInvalidState         = fmt.Errorf("operation not allowed in current session state")
	ErrUnauthenticated      = fmt.Errorf("unauthenticated")
	ErrInvalidEngagement    = fmt.Errorf("invalid engagement")
)

// ValidationError carries the user facing reason of a rejected input.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Unavailable marks an I/O failure as retryable.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// IsRetryable reports whether the caller may retry the same operation later.
// Authorization, validation and missing conversations are final.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrSubscriptionLost) ||
		errors.Is(err, context.DeadlineExceeded)
}

// MapToGRPCError translates the messaging taxonomy into gRPC status codes.
// Validation reasons are kept verbatim so clients can surface them.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok && !isDomainError(err) {
		return err
	}
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Reason)
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidEngagement):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrConversationNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrStoreUnavailable), errors.Is(err, ErrSubscriptionLost):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, ErrSessionClosed):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, ErrInvalidState):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrNotAuthorized, ErrConversationNotFound, ErrStoreUnavailable,
		ErrSubscriptionLost, ErrSessionClosed, ErrInvalidState, ErrUnauthenticated, ErrInvalidEngagement,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
