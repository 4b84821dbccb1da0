package amqp

import (
	"context"

	"fintrack/internal/log"
)

// Notifier adapts the client to the gateway's notification port.
// Fire-and-forget: publish failures are logged and never propagate, so a
// dead broker cannot fail a mutation.
type Notifier struct {
	client *Client
	logger *log.Logger
}

func NewNotifier(client *Client) *Notifier {
	return &Notifier{
		client: client,
		logger: log.New("amqp"),
	}
}

func (n *Notifier) MutationApplied(ctx context.Context, op string, count int) {
	if err := n.client.PublishEvent(ctx, NewMutationEvent(op, count)); err != nil {
		n.logger.ErrorContext(ctx, "failed to publish mutation event",
			"op", op, "error", err)
	}
}

func (n *Notifier) ValidationFailed(ctx context.Context, message string) {
	if err := n.client.PublishEvent(ctx, NewValidationEvent(message)); err != nil {
		n.logger.ErrorContext(ctx, "failed to publish validation event",
			"error", err)
	}
}
