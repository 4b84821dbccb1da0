package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func storedTxn(id string, amount string) core.Transaction {
	a, _ := decimal.NewFromString(amount)
	return core.Transaction{
		ID:          id,
		Description: "Groceries",
		Amount:      a,
		Date:        core.NewDate(2025, 10, 5),
		Category:    "Food",
		SubCategory: "Weekly",
		Type:        core.TypeOf(a),
		Note:        "Goal: New Laptop",
		Recurrent:   true,
		Status:      core.StatusPending,
		LastEdited:  time.Date(2025, 10, 5, 12, 30, 0, 0, time.UTC),
	}
}

func TestReplaceAndLoadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	records := []core.Transaction{
		storedTxn("a", "-500.25"),
		storedTxn("b", "30000"),
	}
	records[1].Type = core.Income
	records[1].Category = "Salary"
	records[1].Status = core.StatusCleared
	records[1].Recurrent = false

	if err := repo.Replace(ctx, records); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d records, want 2", len(got))
	}
	for i := range records {
		want, have := records[i], got[i]
		if have.ID != want.ID || have.Description != want.Description ||
			have.Category != want.Category || have.SubCategory != want.SubCategory ||
			have.Type != want.Type || have.Note != want.Note ||
			have.Recurrent != want.Recurrent || have.Status != want.Status {
			t.Errorf("record %d = %+v, want %+v", i, have, want)
		}
		if !have.Amount.Equal(want.Amount) {
			t.Errorf("record %d amount = %s, want %s", i, have.Amount, want.Amount)
		}
		if have.Date.ISO() != want.Date.ISO() {
			t.Errorf("record %d date = %s, want %s", i, have.Date.ISO(), want.Date.ISO())
		}
		if !have.LastEdited.Equal(want.LastEdited) {
			t.Errorf("record %d lastEdited = %v, want %v", i, have.LastEdited, want.LastEdited)
		}
	}
}

func TestLoadPreservesInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	// ids deliberately out of lexicographic order: position wins.
	records := []core.Transaction{
		storedTxn("z", "-100"),
		storedTxn("a", "-200"),
		storedTxn("m", "-300"),
	}
	if err := repo.Replace(ctx, records); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, id := range []string{"z", "a", "m"} {
		if got[i].ID != id {
			t.Errorf("record %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Replace(ctx, []core.Transaction{storedTxn("a", "-500")}); err != nil {
		t.Fatalf("first Replace: %v", err)
	}
	if err := repo.Replace(ctx, []core.Transaction{storedTxn("b", "-700")}); err != nil {
		t.Fatalf("second Replace: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("collection = %+v, want only b", got)
	}
}

func TestEmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("fresh db has %d records", len(got))
	}

	_, ok, err := repo.Goal(ctx)
	if err != nil {
		t.Fatalf("Goal: %v", err)
	}
	if ok {
		t.Error("fresh db reports a goal")
	}
}

func TestGoalUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := core.Goal{Name: "New Laptop", Target: decimal.NewFromInt(50000), Saved: decimal.NewFromInt(15000)}
	if err := repo.SaveGoal(ctx, first); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}
	got, ok, err := repo.Goal(ctx)
	if err != nil || !ok {
		t.Fatalf("Goal = %v, %v", ok, err)
	}
	if got.Name != first.Name || !got.Target.Equal(first.Target) || !got.Saved.Equal(first.Saved) {
		t.Errorf("goal = %+v, want %+v", got, first)
	}

	second := core.Goal{Name: "Vacation", Target: decimal.NewFromInt(80000), Saved: decimal.NewFromInt(500)}
	if err := repo.SaveGoal(ctx, second); err != nil {
		t.Fatalf("SaveGoal(update): %v", err)
	}
	got, _, _ = repo.Goal(ctx)
	if got.Name != "Vacation" || !got.Target.Equal(second.Target) {
		t.Errorf("goal after update = %+v, want %+v", got, second)
	}
}
