package ledger

import (
	"context"

	"fintrack/internal/core"
)

// Ports the gateway drives. The store holds the whole collection; mutations
// always go through Replace so the collection changes atomically.
type (
	Store interface {
		Load(ctx context.Context) ([]core.Transaction, error)
		Replace(ctx context.Context, records []core.Transaction) error
		Goal(ctx context.Context) (core.Goal, bool, error)
		SaveGoal(ctx context.Context, g core.Goal) error
	}

	// Notifier receives mutation events and validation failures.
	// Fire-and-forget: implementations must not block mutations on delivery.
	Notifier interface {
		MutationApplied(ctx context.Context, op string, count int)
		ValidationFailed(ctx context.Context, message string)
	}
)

// NopNotifier drops every notification. Used when AMQP is not configured.
type NopNotifier struct{}

func (NopNotifier) MutationApplied(context.Context, string, int) {}
func (NopNotifier) ValidationFailed(context.Context, string)    {}
