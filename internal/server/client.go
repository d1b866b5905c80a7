package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// DailyQuizClient calls a DailyQuizService.
type DailyQuizClient struct {
	getDailyQuiz *connect.Client[GetDailyQuizRequest, DailyQuizResponse]
	selectOption *connect.Client[SelectOptionRequest, DailyQuizResponse]
	submitAnswer *connect.Client[UserRequest, DailyQuizResponse]
	acknowledge  *connect.Client[UserRequest, DailyQuizResponse]
	retry        *connect.Client[UserRequest, DailyQuizResponse]
	watchErrors  *connect.Client[UserRequest, ErrorEvent]
}

func NewDailyQuizClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DailyQuizClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSONCodec()}, opts...)
	return &DailyQuizClient{
		getDailyQuiz: connect.NewClient[GetDailyQuizRequest, DailyQuizResponse](httpClient, baseURL+GetDailyQuizProcedure, opts...),
		selectOption: connect.NewClient[SelectOptionRequest, DailyQuizResponse](httpClient, baseURL+SelectOptionProcedure, opts...),
		submitAnswer: connect.NewClient[UserRequest, DailyQuizResponse](httpClient, baseURL+SubmitAnswerProcedure, opts...),
		acknowledge:  connect.NewClient[UserRequest, DailyQuizResponse](httpClient, baseURL+AcknowledgeProcedure, opts...),
		retry:        connect.NewClient[UserRequest, DailyQuizResponse](httpClient, baseURL+RetryProcedure, opts...),
		watchErrors:  connect.NewClient[UserRequest, ErrorEvent](httpClient, baseURL+WatchErrorsProcedure, opts...),
	}
}

func (c *DailyQuizClient) GetDailyQuiz(ctx context.Context, req *connect.Request[GetDailyQuizRequest]) (*connect.Response[DailyQuizResponse], error) {
	return c.getDailyQuiz.CallUnary(ctx, req)
}

func (c *DailyQuizClient) SelectOption(ctx context.Context, req *connect.Request[SelectOptionRequest]) (*connect.Response[DailyQuizResponse], error) {
	return c.selectOption.CallUnary(ctx, req)
}

func (c *DailyQuizClient) SubmitAnswer(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[DailyQuizResponse], error) {
	return c.submitAnswer.CallUnary(ctx, req)
}

func (c *DailyQuizClient) Acknowledge(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[DailyQuizResponse], error) {
	return c.acknowledge.CallUnary(ctx, req)
}

func (c *DailyQuizClient) Retry(ctx context.Context, req *connect.Request[UserRequest]) (*connect.Response[DailyQuizResponse], error) {
	return c.retry.CallUnary(ctx, req)
}

func (c *DailyQuizClient) WatchErrors(ctx context.Context, req *connect.Request[UserRequest]) (*connect.ServerStreamForClient[ErrorEvent], error) {
	return c.watchErrors.CallServerStream(ctx, req)
}
