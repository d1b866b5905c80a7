package server

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/enrollease/enrollease/internal/quiz"
)

const errorDomain = "enrollease.dailyquiz"

const (
	ReasonInvalidState    = "INVALID_STATE"
	ReasonNoSelection     = "NO_SELECTION"
	ReasonSessionNotFound = "SESSION_NOT_FOUND"
)

var ErrSessionNotFound = errors.New("no daily quiz session")

// toConnectError maps machine errors onto connect codes. view is the state the
// machine was in when the operation was rejected.
func toConnectError(op, userID string, err error, view quiz.View) error {
	var stateErr *quiz.TransitionError
	switch {
	case errors.As(err, &stateErr):
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		addErrorInfo(connectErr, ReasonInvalidState, map[string]string{
			"operation": stateErr.Op,
			"state":     stateErr.State.String(),
			"user_id":   userID,
		})
		if stateErr.State == quiz.StateCompleted && view.Remaining > 0 {
			if detail, detailErr := connect.NewErrorDetail(&errdetails.RetryInfo{
				RetryDelay: durationpb.New(view.Remaining),
			}); detailErr == nil {
				connectErr.AddDetail(detail)
			}
		}
		return connectErr
	case errors.Is(err, quiz.ErrNoSelection):
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		addErrorInfo(connectErr, ReasonNoSelection, map[string]string{
			"operation": op,
			"user_id":   userID,
		})
		return connectErr
	case errors.Is(err, quiz.ErrUnknownOption):
		connectErr := connect.NewError(connect.CodeInvalidArgument, err)
		if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
			FieldViolations: []*errdetails.BadRequest_FieldViolation{
				{Field: "option", Description: err.Error()},
			},
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	case errors.Is(err, ErrSessionNotFound):
		connectErr := connect.NewError(connect.CodeNotFound, err)
		addErrorInfo(connectErr, ReasonSessionNotFound, map[string]string{
			"user_id": userID,
		})
		return connectErr
	case errors.Is(err, quiz.ErrClosed):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		return connect.NewError(connect.CodeInternal, fmt.Errorf("%s: %w", op, err))
	}
}

func addErrorInfo(connectErr *connect.Error, reason string, metadata map[string]string) {
	if detail, err := connect.NewErrorDetail(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: metadata,
	}); err == nil {
		connectErr.AddDetail(detail)
	}
}
