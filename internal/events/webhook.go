package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookForwarder relays events to an HTTP endpoint, e.g. a notification
// service that shows toasts to the user.
type WebhookForwarder struct {
	client *resty.Client
	url    string
}

func NewWebhookForwarder(url string, timeout time.Duration) *WebhookForwarder {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &WebhookForwarder{client: client, url: url}
}

func (f *WebhookForwarder) Forward(ctx context.Context, event Event) error {
	response, err := f.client.R().
		SetContext(ctx).
		SetBody(event).
		Post(f.url)
	if err != nil {
		return fmt.Errorf("client.Post(%s) > %w", f.url, err)
	}
	if response.IsError() {
		return fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return nil
}

// Run forwards events from sub until ctx is done or the subscription is closed.
// Delivery failures are logged and do not stop the loop.
func (f *WebhookForwarder) Run(ctx context.Context, sub *Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub.C():
			if !ok {
				return
			}
			if err := f.Forward(ctx, event); err != nil {
				slog.Default().Error("failed to forward event",
					"kind", event.Kind,
					"user", event.UserID,
					"error", err,
				)
			}
		}
	}
}
