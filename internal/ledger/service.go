package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Draft is a mutation request as it arrives from a client. Amount is the raw
// user input: a positive number, sign applied here from Type. An empty ID
// means create; a present ID means edit that record in place.
type Draft struct {
	ID          string       `json:"id"`
	Description string       `json:"description"`
	Amount      string       `json:"amount"`
	Date        core.Date    `json:"date"`
	Category    string       `json:"category"`
	SubCategory string       `json:"subCategory"`
	Type        core.TxnType `json:"type"`
	Note        string       `json:"note"`
	Recurrent   bool         `json:"recurrent"`
	Status      core.Status  `json:"status"`
}

// Service is the mutation gateway: the only path through which the
// collection and the goal change. Reads pass through; every write validates,
// derives the new collection, replaces it atomically and then notifies.
type Service struct {
	store    Store
	notifier Notifier
	clock    core.Clock
	logger   *log.Logger
	revision atomic.Uint64
}

func NewService(store Store, notifier Notifier, clock core.Clock) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &Service{
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   log.New("ledger"),
	}
}

// Revision increments on every applied mutation. Response caches key on it.
func (s *Service) Revision() uint64 { return s.revision.Load() }

// Collection returns the current transaction collection.
func (s *Service) Collection(ctx context.Context) ([]core.Transaction, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return records, nil
}

// Goal returns the savings goal, or false when none has been set.
func (s *Service) Goal(ctx context.Context) (core.Goal, bool, error) {
	g, ok, err := s.store.Goal(ctx)
	if err != nil {
		return core.Goal{}, false, fmt.Errorf("load goal: %w", err)
	}
	return g, ok, nil
}

// AddOrUpdate validates the draft and either appends a new record or
// replaces the record with the draft's id, keeping its position. Validation
// failures leave the collection untouched.
func (s *Service) AddOrUpdate(ctx context.Context, d Draft) (core.Transaction, error) {
	txn, err := s.materialize(d)
	if err != nil {
		s.notifier.ValidationFailed(ctx, err.Error())
		return core.Transaction{}, err
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load collection: %w", err)
	}

	next := make([]core.Transaction, len(records))
	copy(next, records)
	replaced := false
	if txn.ID != "" {
		for i := range next {
			if next[i].ID == txn.ID {
				next[i] = txn
				replaced = true
				break
			}
		}
	}
	if !replaced {
		txn.ID = newID()
		next = append(next, txn)
	}

	if err := s.replace(ctx, next); err != nil {
		return core.Transaction{}, err
	}
	op := "create"
	if replaced {
		op = "update"
	}
	s.notifier.MutationApplied(ctx, op, 1)
	s.logger.InfoContext(ctx, "transaction stored", "op", op, "id", txn.ID)
	return txn, nil
}

// Delete removes the record with the given id. Absent ids are a no-op and
// publish nothing.
func (s *Service) Delete(ctx context.Context, id string) error {
	records, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}

	next := make([]core.Transaction, 0, len(records))
	for _, t := range records {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(records) {
		return nil
	}

	if err := s.replace(ctx, next); err != nil {
		return err
	}
	s.notifier.MutationApplied(ctx, "delete", 1)
	s.logger.InfoContext(ctx, "transaction deleted", "id", id)
	return nil
}

// BulkDelete removes every record whose id is in ids.
func (s *Service) BulkDelete(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	records, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load collection: %w", err)
	}

	next := make([]core.Transaction, 0, len(records))
	for _, t := range records {
		if _, gone := drop[t.ID]; !gone {
			next = append(next, t)
		}
	}
	removed := len(records) - len(next)
	if removed == 0 {
		return 0, nil
	}

	if err := s.replace(ctx, next); err != nil {
		return 0, err
	}
	s.notifier.MutationApplied(ctx, "bulk-delete", removed)
	s.logger.InfoContext(ctx, "transactions deleted", "count", removed)
	return removed, nil
}

// UpdateGoal validates and persists the goal singleton.
func (s *Service) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		s.notifier.ValidationFailed(ctx, err.Error())
		return err
	}
	if err := s.store.SaveGoal(ctx, g); err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	s.revision.Add(1)
	s.notifier.MutationApplied(ctx, "goal", 1)
	return nil
}

func (s *Service) replace(ctx context.Context, next []core.Transaction) error {
	if err := s.store.Replace(ctx, next); err != nil {
		return fmt.Errorf("replace collection: %w", err)
	}
	s.revision.Add(1)
	return nil
}

// materialize turns a draft into a validated transaction. The amount arrives
// as a positive magnitude and the sign is derived from the type, so the two
// can never diverge in stored data.
func (s *Service) materialize(d Draft) (core.Transaction, error) {
	if strings.TrimSpace(d.Description) == "" {
		return core.Transaction{}, core.ErrEmptyDescription
	}
	magnitude, err := decimal.NewFromString(strings.TrimSpace(d.Amount))
	if err != nil || !magnitude.IsPositive() {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	amount := magnitude
	if d.Type == core.Expense {
		amount = magnitude.Neg()
	}
	status := d.Status
	if status == "" {
		status = core.StatusCleared
	}

	txn := core.Transaction{
		ID:          d.ID,
		Description: strings.TrimSpace(d.Description),
		Amount:      amount,
		Date:        d.Date,
		Category:    d.Category,
		SubCategory: d.SubCategory,
		Type:        d.Type,
		Note:        d.Note,
		Recurrent:   d.Recurrent,
		Status:      status,
		LastEdited:  s.clock.Now(),
	}
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return txn, nil
}

// newID returns a timestamp-ordered UUIDv7, so ids sort by creation time.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
