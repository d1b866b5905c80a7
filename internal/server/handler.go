// Package server provides Connect RPC handlers for the daily quiz service.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/enrollease/enrollease/internal/events"
	"github.com/enrollease/enrollease/internal/quiz"
)

const DailyQuizServiceName = "enrollease.dailyquiz.v1.DailyQuizService"

const (
	GetDailyQuizProcedure = "/" + DailyQuizServiceName + "/GetDailyQuiz"
	SelectOptionProcedure = "/" + DailyQuizServiceName + "/SelectOption"
	SubmitAnswerProcedure = "/" + DailyQuizServiceName + "/SubmitAnswer"
	AcknowledgeProcedure  = "/" + DailyQuizServiceName + "/Acknowledge"
	RetryProcedure        = "/" + DailyQuizServiceName + "/Retry"
	WatchErrorsProcedure  = "/" + DailyQuizServiceName + "/WatchErrors"
)

// watchBuffer is how many undelivered events a WatchErrors stream may hold.
const watchBuffer = 16

// DailyQuizHandler serves the daily quiz of every user.
type DailyQuizHandler struct {
	sessions *SessionManager
	bus      *events.Bus
}

func NewDailyQuizHandler(sessions *SessionManager, bus *events.Bus) *DailyQuizHandler {
	return &DailyQuizHandler{
		sessions: sessions,
		bus:      bus,
	}
}

// GetDailyQuiz opens the user's session if needed and returns it once it has
// left the loading state.
func (h *DailyQuizHandler) GetDailyQuiz(
	ctx context.Context,
	req *connect.Request[GetDailyQuizRequest],
) (*connect.Response[DailyQuizResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	view, err := h.sessions.Open(ctx, req.Msg.UserID, req.Msg.Timezone)
	if err != nil {
		if ctx.Err() != nil {
			return nil, connect.NewError(connect.CodeDeadlineExceeded, fmt.Errorf("wait for daily quiz: %w", err))
		}
		return nil, toConnectError("get daily quiz", req.Msg.UserID, err, view)
	}
	return h.respond(view), nil
}

func (h *DailyQuizHandler) SelectOption(
	ctx context.Context,
	req *connect.Request[SelectOptionRequest],
) (*connect.Response[DailyQuizResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	view, err := h.sessions.Select(req.Msg.UserID, req.Msg.Option)
	if err != nil {
		return nil, toConnectError("select", req.Msg.UserID, err, view)
	}
	return h.respond(view), nil
}

func (h *DailyQuizHandler) SubmitAnswer(
	ctx context.Context,
	req *connect.Request[UserRequest],
) (*connect.Response[DailyQuizResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	view, err := h.sessions.Submit(req.Msg.UserID)
	if err != nil {
		return nil, toConnectError("submit", req.Msg.UserID, err, view)
	}
	return h.respond(view), nil
}

func (h *DailyQuizHandler) Acknowledge(
	ctx context.Context,
	req *connect.Request[UserRequest],
) (*connect.Response[DailyQuizResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	view, err := h.sessions.Acknowledge(req.Msg.UserID)
	if err != nil {
		return nil, toConnectError("acknowledge", req.Msg.UserID, err, view)
	}
	return h.respond(view), nil
}

func (h *DailyQuizHandler) Retry(
	ctx context.Context,
	req *connect.Request[UserRequest],
) (*connect.Response[DailyQuizResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	view, err := h.sessions.Retry(ctx, req.Msg.UserID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, connect.NewError(connect.CodeDeadlineExceeded, fmt.Errorf("wait for daily quiz: %w", err))
		}
		return nil, toConnectError("retry", req.Msg.UserID, err, view)
	}
	return h.respond(view), nil
}

// WatchErrors streams the user's error-channel events until the client goes away.
func (h *DailyQuizHandler) WatchErrors(
	ctx context.Context,
	req *connect.Request[UserRequest],
	stream *connect.ServerStream[ErrorEvent],
) error {
	if err := validateRequest(req.Msg); err != nil {
		return err
	}

	sub := h.bus.Subscribe(watchBuffer, events.ForUser(req.Msg.UserID))
	defer sub.Close()

	// Flush the response headers so clients see the stream open before any event.
	if err := stream.Send(nil); err != nil {
		return fmt.Errorf("stream.Send(headers) > %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.C():
			if !ok {
				return nil
			}
			if err := stream.Send(toErrorEvent(event)); err != nil {
				return fmt.Errorf("stream.Send() > %w", err)
			}
		}
	}
}

func (h *DailyQuizHandler) respond(view quiz.View) *connect.Response[DailyQuizResponse] {
	slog.Default().Debug("daily quiz view", "user", view.UserID, "state", view.State)
	return connect.NewResponse(&DailyQuizResponse{Quiz: toDailyQuiz(view)})
}

// NewDailyQuizServiceHandler builds the HTTP handler serving every procedure of
// the service, mounted under the returned path.
func NewDailyQuizServiceHandler(h *DailyQuizHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSONCodec()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(GetDailyQuizProcedure, connect.NewUnaryHandler(GetDailyQuizProcedure, h.GetDailyQuiz, opts...))
	mux.Handle(SelectOptionProcedure, connect.NewUnaryHandler(SelectOptionProcedure, h.SelectOption, opts...))
	mux.Handle(SubmitAnswerProcedure, connect.NewUnaryHandler(SubmitAnswerProcedure, h.SubmitAnswer, opts...))
	mux.Handle(AcknowledgeProcedure, connect.NewUnaryHandler(AcknowledgeProcedure, h.Acknowledge, opts...))
	mux.Handle(RetryProcedure, connect.NewUnaryHandler(RetryProcedure, h.Retry, opts...))
	mux.Handle(WatchErrorsProcedure, connect.NewServerStreamHandler(WatchErrorsProcedure, h.WatchErrors, opts...))
	return "/" + DailyQuizServiceName + "/", mux
}
