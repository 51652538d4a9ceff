package errors_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-narrative/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "character not found",
			expected: "NOT_FOUND: character not found",
		},
		{
			name:     "aborted error",
			code:     errors.CodeAborted,
			message:  "stale party version",
			expected: "ABORTED: stale party version",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	base := errors.NotFound("party not found").WithMeta("party_id", "party_1")
	wrapped := errors.Wrap(base, "failed to load party")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("party_1", wrapped.Meta["party_id"])
	s.Assert().True(errors.IsNotFound(wrapped))
	s.Assert().Equal("failed to load party", errors.GetMessage(wrapped))
}

func (s *ErrorsTestSuite) TestWrapPlainErrorIsInternal() {
	wrapped := errors.Wrapf(fmt.Errorf("connection refused"), "failed to save %s", "character")

	s.Assert().True(errors.IsInternal(wrapped))
	s.Assert().Contains(wrapped.Error(), "connection refused")
	s.Assert().Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	wrapped := errors.WrapWithCode(errors.Internal("boom"), errors.CodeAborted, "retry")
	s.Assert().True(errors.IsAborted(wrapped))
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	s.Assert().NoError(vb.Build())

	errors.ValidateRequired("player_id", "  ", vb)
	vb.RequiredField("party_id")

	err := vb.Build()
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Contains(err.Error(), "party_id: is required")
	s.Assert().Contains(err.Error(), "player_id: is required")
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	err := errors.PermissionDenied("only the leader may invite").
		WithReason("not_party_leader")

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Assert().Equal(codes.PermissionDenied, st.Code())
	s.Assert().Equal("only the leader may invite", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.Assert().True(errors.IsPermissionDenied(back))
	s.Assert().Equal("not_party_leader", errors.GetReason(back))
}

func (s *ErrorsTestSuite) TestGRPCUnknownErrorIsInternal() {
	st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("plain")))
	s.Require().True(ok)
	s.Assert().Equal(codes.Internal, st.Code())
	s.Assert().Nil(errors.ToGRPCError(nil))
}

func (s *ErrorsTestSuite) TestGetCode() {
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("x")))
	s.Assert().Equal(errors.CodeFailedPrecondition, errors.GetCode(errors.FailedPrecondition("ended")))
}

func (s *ErrorsTestSuite) TestContextErrorsKeepTheirMeaning() {
	wrapped := errors.Wrap(context.Canceled, "waiting for party lock")
	s.Assert().Equal(errors.CodeCanceled, wrapped.Code)
	s.Assert().True(errors.IsCanceled(wrapped))
	s.Assert().ErrorIs(wrapped, context.Canceled)

	s.Assert().Equal(errors.CodeDeadlineExceeded, errors.GetCode(context.DeadlineExceeded))

	st, ok := status.FromError(errors.ToGRPCError(context.DeadlineExceeded))
	s.Require().True(ok)
	s.Assert().Equal(codes.DeadlineExceeded, st.Code())
	s.Assert().True(errors.IsCanceled(errors.FromGRPCError(st.Err())))
}

func (s *ErrorsTestSuite) TestRetryable() {
	s.Assert().True(errors.IsRetryable(errors.Wrap(errors.Aborted("stale party version"), "failed to update party")))
	s.Assert().True(errors.IsRetryable(errors.Unavailable("redis down")))
	s.Assert().False(errors.IsRetryable(errors.PermissionDenied("not leader")))
	s.Assert().False(errors.IsRetryable(nil))
}

func (s *ErrorsTestSuite) TestGetReasonWithoutMeta() {
	s.Assert().Equal("", errors.GetReason(errors.NotFound("party not found")))
	s.Assert().Equal("", errors.GetReason(fmt.Errorf("plain")))
}
