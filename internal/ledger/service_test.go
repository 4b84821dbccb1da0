package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type fakeStore struct {
	records []core.Transaction
	goal    core.Goal
	hasGoal bool

	loadErr    error
	replaceErr error
	replaced   int
}

func (f *fakeStore) Load(context.Context) ([]core.Transaction, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]core.Transaction, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeStore) Replace(_ context.Context, records []core.Transaction) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.records = records
	f.replaced++
	return nil
}

func (f *fakeStore) Goal(context.Context) (core.Goal, bool, error) {
	return f.goal, f.hasGoal, nil
}

func (f *fakeStore) SaveGoal(_ context.Context, g core.Goal) error {
	f.goal, f.hasGoal = g, true
	return nil
}

type recordingNotifier struct {
	mutations   []string
	validations []string
}

func (n *recordingNotifier) MutationApplied(_ context.Context, op string, _ int) {
	n.mutations = append(n.mutations, op)
}

func (n *recordingNotifier) ValidationFailed(_ context.Context, msg string) {
	n.validations = append(n.validations, msg)
}

var testNow = time.Date(2025, 10, 20, 9, 30, 0, 0, time.UTC)

func newTestService(store *fakeStore) (*Service, *recordingNotifier) {
	n := &recordingNotifier{}
	return NewService(store, n, core.FixedClock{T: testNow}), n
}

func expenseDraft() Draft {
	return Draft{
		Description: "Groceries",
		Amount:      "500",
		Date:        core.NewDate(2025, 10, 5),
		Category:    "Food",
		Type:        core.Expense,
	}
}

func TestAddNormalizesSignAndAssignsID(t *testing.T) {
	store := &fakeStore{}
	svc, n := newTestService(store)

	txn, err := svc.AddOrUpdate(context.Background(), expenseDraft())
	if err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if !txn.Amount.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("Amount = %s, want -500 (sign from type)", txn.Amount)
	}
	if txn.ID == "" {
		t.Error("no id assigned")
	}
	if txn.Status != core.StatusCleared {
		t.Errorf("Status = %s, want default Cleared", txn.Status)
	}
	if !txn.LastEdited.Equal(testNow) {
		t.Errorf("LastEdited = %v, want clock time %v", txn.LastEdited, testNow)
	}
	if len(store.records) != 1 {
		t.Fatalf("collection has %d records, want 1", len(store.records))
	}
	if len(n.mutations) != 1 || n.mutations[0] != "create" {
		t.Errorf("mutations = %v, want [create]", n.mutations)
	}
	if svc.Revision() != 1 {
		t.Errorf("Revision = %d, want 1", svc.Revision())
	}
}

func TestAddRejectsInvalidDrafts(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr core.ValidationError
	}{
		{
			name:    "empty description",
			mutate:  func(d *Draft) { d.Description = "  " },
			wantErr: core.ErrEmptyDescription,
		},
		{
			name:    "non-numeric amount",
			mutate:  func(d *Draft) { d.Amount = "lots" },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "negative amount input",
			mutate:  func(d *Draft) { d.Amount = "-500" },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "zero amount",
			mutate:  func(d *Draft) { d.Amount = "0" },
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "category from the wrong set",
			mutate:  func(d *Draft) { d.Category = "Salary" },
			wantErr: core.ErrUnknownCategory,
		},
		{
			name:    "missing date",
			mutate:  func(d *Draft) { d.Date = core.Date{} },
			wantErr: core.ErrZeroDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc, n := newTestService(store)

			d := expenseDraft()
			tt.mutate(&d)
			_, err := svc.AddOrUpdate(context.Background(), d)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddOrUpdate = %v, want %v", err, tt.wantErr)
			}
			if store.replaced != 0 {
				t.Error("collection was replaced despite validation failure")
			}
			if len(n.validations) != 1 {
				t.Errorf("validations = %v, want one message", n.validations)
			}
			if svc.Revision() != 0 {
				t.Errorf("Revision = %d, want 0", svc.Revision())
			}
		})
	}
}

func TestUpdateKeepsPositionAndID(t *testing.T) {
	store := &fakeStore{}
	svc, n := newTestService(store)
	ctx := context.Background()

	first, _ := svc.AddOrUpdate(ctx, expenseDraft())
	second := expenseDraft()
	second.Description = "Rent"
	second.Category = "Bills"
	_, _ = svc.AddOrUpdate(ctx, second)

	edit := expenseDraft()
	edit.ID = first.ID
	edit.Description = "Groceries and snacks"
	edit.Amount = "650"
	got, err := svc.AddOrUpdate(ctx, edit)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("edit changed id: %s -> %s", first.ID, got.ID)
	}
	if len(store.records) != 2 {
		t.Fatalf("collection has %d records, want 2", len(store.records))
	}
	if store.records[0].ID != first.ID || store.records[0].Description != "Groceries and snacks" {
		t.Errorf("edited record not in place: %+v", store.records[0])
	}
	if n.mutations[len(n.mutations)-1] != "update" {
		t.Errorf("last mutation = %s, want update", n.mutations[len(n.mutations)-1])
	}
}

func TestUnknownEditIDAppends(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store)

	d := expenseDraft()
	d.ID = "not-there"
	got, err := svc.AddOrUpdate(context.Background(), d)
	if err != nil {
		t.Fatalf("AddOrUpdate: %v", err)
	}
	if got.ID == "not-there" {
		t.Error("stale id reused for a new record")
	}
	if len(store.records) != 1 {
		t.Fatalf("collection has %d records, want 1", len(store.records))
	}
}

func TestDelete(t *testing.T) {
	store := &fakeStore{}
	svc, n := newTestService(store)
	ctx := context.Background()

	txn, _ := svc.AddOrUpdate(ctx, expenseDraft())

	if err := svc.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete(missing) = %v, want nil no-op", err)
	}
	if len(store.records) != 1 {
		t.Fatal("no-op delete changed the collection")
	}
	revBefore := svc.Revision()

	if err := svc.Delete(ctx, txn.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.records) != 0 {
		t.Errorf("collection has %d records, want 0", len(store.records))
	}
	if svc.Revision() != revBefore+1 {
		t.Errorf("Revision = %d, want %d", svc.Revision(), revBefore+1)
	}
	if n.mutations[len(n.mutations)-1] != "delete" {
		t.Errorf("last mutation = %s, want delete", n.mutations[len(n.mutations)-1])
	}
}

func TestBulkDelete(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store)
	ctx := context.Background()

	var kept string
	for i, desc := range []string{"A", "B", "C"} {
		d := expenseDraft()
		d.Description = desc
		txn, _ := svc.AddOrUpdate(ctx, d)
		if i == 1 {
			kept = txn.ID
		}
	}

	ids := []string{store.records[0].ID, store.records[2].ID, "missing"}
	removed, err := svc.BulkDelete(ctx, ids)
	if err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if len(store.records) != 1 || store.records[0].ID != kept {
		t.Errorf("remaining = %+v, want only %s", store.records, kept)
	}

	removed, err = svc.BulkDelete(ctx, nil)
	if err != nil || removed != 0 {
		t.Errorf("BulkDelete(nil) = %d, %v, want 0, nil", removed, err)
	}
}

func TestUpdateGoal(t *testing.T) {
	store := &fakeStore{}
	svc, n := newTestService(store)
	ctx := context.Background()

	bad := core.Goal{Name: "X", Target: decimal.Zero}
	if err := svc.UpdateGoal(ctx, bad); !errors.Is(err, core.ErrGoalTarget) {
		t.Fatalf("UpdateGoal(bad) = %v, want %v", err, core.ErrGoalTarget)
	}
	if len(n.validations) != 1 {
		t.Errorf("validations = %v, want one message", n.validations)
	}

	good := core.Goal{Name: "New Laptop", Target: decimal.NewFromInt(50000), Saved: decimal.NewFromInt(15000)}
	if err := svc.UpdateGoal(ctx, good); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	g, ok, err := svc.Goal(ctx)
	if err != nil || !ok {
		t.Fatalf("Goal() = %v, %v", ok, err)
	}
	if g.Name != "New Laptop" {
		t.Errorf("goal = %+v", g)
	}
}

func TestStoreErrorsSurface(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("disk gone")}
	svc, _ := newTestService(store)

	if _, err := svc.AddOrUpdate(context.Background(), expenseDraft()); err == nil {
		t.Fatal("AddOrUpdate swallowed a load error")
	}

	store = &fakeStore{replaceErr: errors.New("disk gone")}
	svc, _ = newTestService(store)
	if _, err := svc.AddOrUpdate(context.Background(), expenseDraft()); err == nil {
		t.Fatal("AddOrUpdate swallowed a replace error")
	}
	if svc.Revision() != 0 {
		t.Errorf("Revision advanced on failed replace")
	}
}

func TestIDsAreTimestampOrdered(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newTestService(store)
	ctx := context.Background()

	a, _ := svc.AddOrUpdate(ctx, expenseDraft())
	time.Sleep(2 * time.Millisecond)
	b, _ := svc.AddOrUpdate(ctx, expenseDraft())
	if !(a.ID < b.ID) {
		t.Errorf("ids not ordered by creation: %s then %s", a.ID, b.ID)
	}
}
