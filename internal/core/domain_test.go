package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTxn() Transaction {
	return Transaction{
		ID:          "01923456-0000-7000-8000-000000000001",
		Description: "Groceries",
		Amount:      decimal.NewFromInt(-500),
		Date:        NewDate(2025, 10, 5),
		Category:    "Food",
		Type:        Expense,
		Status:      StatusCleared,
		LastEdited:  time.Date(2025, 10, 5, 12, 0, 0, 0, time.UTC),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr ValidationError
	}{
		{
			name:   "valid expense",
			mutate: func(*Transaction) {},
		},
		{
			name: "valid income",
			mutate: func(tx *Transaction) {
				tx.Amount = decimal.NewFromInt(30000)
				tx.Type = Income
				tx.Category = "Salary"
			},
		},
		{
			name:    "empty description",
			mutate:  func(tx *Transaction) { tx.Description = "   " },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "zero amount",
			mutate:  func(tx *Transaction) { tx.Amount = decimal.Zero },
			wantErr: ErrZeroAmount,
		},
		{
			name:    "sign disagrees with type",
			mutate:  func(tx *Transaction) { tx.Amount = decimal.NewFromInt(500) },
			wantErr: ErrSignMismatch,
		},
		{
			name:    "income category on expense",
			mutate:  func(tx *Transaction) { tx.Category = "Salary" },
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "unknown type",
			mutate:  func(tx *Transaction) { tx.Type = "transfer" },
			wantErr: ErrUnknownType,
		},
		{
			name:    "unknown status",
			mutate:  func(tx *Transaction) { tx.Status = "Posted" },
			wantErr: ErrUnknownStatus,
		},
		{
			name:    "zero date",
			mutate:  func(tx *Transaction) { tx.Date = Date{} },
			wantErr: ErrZeroDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTxn()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
			if !IsValidation(err) {
				t.Errorf("IsValidation(%v) = false, want true", err)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		wantErr ValidationError
	}{
		{name: "valid", goal: Goal{Name: "New Laptop", Target: decimal.NewFromInt(50000), Saved: decimal.NewFromInt(15000)}},
		{name: "zero target", goal: Goal{Name: "X", Saved: decimal.NewFromInt(1)}, wantErr: ErrGoalTarget},
		{name: "negative saved", goal: Goal{Name: "X", Target: decimal.NewFromInt(100), Saved: decimal.NewFromInt(-1)}, wantErr: ErrGoalSaved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.wantErr == "" && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != "" && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 10, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2025-10-05"` {
		t.Fatalf("Marshal = %s, want %q", b, "2025-10-05")
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip = %v, want %v", back, d)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2025-13-01", "05/10/2025", "yesterday"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) = nil error, want failure", s)
		}
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(decimal.NewFromInt(-1)); got != Expense {
		t.Errorf("TypeOf(-1) = %v, want expense", got)
	}
	if got := TypeOf(decimal.NewFromInt(1)); got != Income {
		t.Errorf("TypeOf(1) = %v, want income", got)
	}
}
