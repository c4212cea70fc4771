package errors

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToGRPCError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    codes.Code
		message string
	}{
		{"validation reason is kept verbatim", NewValidationError("message too long"), codes.InvalidArgument, "message too long"},
		{"wrapped validation", fmt.Errorf("append: %w", NewValidationError("message cannot be empty")), codes.InvalidArgument, "message cannot be empty"},
		{"not authorized", ErrNotAuthorized, codes.PermissionDenied, ErrNotAuthorized.Error()},
		{"unknown conversation", ErrConversationNotFound, codes.NotFound, ErrConversationNotFound.Error()},
		{"store down", Unavailable("list", fmt.Errorf("disk")), codes.Unavailable, "list: store unavailable: disk"},
		{"invalid state", ErrInvalidState, codes.FailedPrecondition, ErrInvalidState.Error()},
		{"unexpected", fmt.Errorf("boom"), codes.Internal, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := require.New(t)

			st := status.Convert(MapToGRPCError(tc.err))

			req.Equal(tc.code, st.Code())
			req.Equal(tc.message, st.Message())
		})
	}
}

func TestMapToGRPCError_Keeps_Existing_Status(t *testing.T) {
	req := require.New(t)
	original := status.Error(codes.ResourceExhausted, "slow down")

	req.Equal(original, MapToGRPCError(original))
	req.NoError(MapToGRPCError(nil))
}

func TestIsRetryable(t *testing.T) {
	req := require.New(t)

	req.True(IsRetryable(Unavailable("count", fmt.Errorf("io"))))
	req.True(IsRetryable(fmt.Errorf("%w: eof", ErrSubscriptionLost)))
	req.False(IsRetryable(NewValidationError("message too long")))
	req.False(IsRetryable(ErrNotAuthorized))
	req.False(IsRetryable(ErrConversationNotFound))
	req.True(IsRetryable(fmt.Errorf("list: %w", context.DeadlineExceeded)))
	req.False(IsRetryable(context.Canceled))
}
