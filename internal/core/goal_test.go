package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func goalTxn(amount int64, note string) Transaction {
	t := txn("Set aside", amount, NewDate(2025, 9, 1), "Other Expense")
	t.Note = note
	return t
}

func TestForecast(t *testing.T) {
	now := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	goal := Goal{Name: "New Laptop", Target: decimal.NewFromInt(50000), Saved: decimal.NewFromInt(15000)}

	tests := []struct {
		name         string
		goal         Goal
		records      []Transaction
		wantProgress string
		wantMonths   int64
		monthsKnown  bool
		wantDate     string
		dateKnown    bool
	}{
		{
			name:         "no contributions means no estimate",
			goal:         goal,
			records:      []Transaction{txn("Groceries", -500, NewDate(2025, 10, 5), "Food")},
			wantProgress: "30",
			monthsKnown:  false,
		},
		{
			// remaining 35000, contribution 5000, ceil = 7 months.
			name: "steady contributions",
			goal: goal,
			records: []Transaction{
				goalTxn(-5000, "Goal: New Laptop"),
			},
			wantProgress: "30",
			wantMonths:   7,
			monthsKnown:  true,
			wantDate:     "2026-05-20",
			dateKnown:    true,
		},
		{
			// remaining 35000, contribution 10000, ceil(3.5) = 4.
			name: "fractional months round up",
			goal: goal,
			records: []Transaction{
				goalTxn(-4000, "Goal: New Laptop"),
				goalTxn(-6000, "note says Goal: New Laptop too"),
			},
			wantProgress: "30",
			wantMonths:   4,
			monthsKnown:  true,
			wantDate:     "2026-02-20",
			dateKnown:    true,
		},
		{
			name: "tag must name this goal",
			goal: goal,
			records: []Transaction{
				goalTxn(-5000, "Goal: Vacation"),
			},
			wantProgress: "30",
			monthsKnown:  false,
		},
		{
			name: "income records never contribute",
			goal: goal,
			records: []Transaction{
				goalTxn(5000, "Goal: New Laptop"),
			},
			wantProgress: "30",
			monthsKnown:  false,
		},
		{
			name:         "already reached",
			goal:         Goal{Name: "Emergency fund", Target: decimal.NewFromInt(10000), Saved: decimal.NewFromInt(12000)},
			wantProgress: "100",
			wantMonths:   0,
			monthsKnown:  true,
			dateKnown:    false,
		},
		{
			name:         "zero target counts as reached",
			goal:         Goal{Name: "X", Target: decimal.Zero, Saved: decimal.Zero},
			wantProgress: "100",
			wantMonths:   0,
			monthsKnown:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Forecast(tt.goal, tt.records, now)
			if !f.ProgressPct.Equal(dec(tt.wantProgress)) {
				t.Errorf("ProgressPct = %s, want %s", f.ProgressPct, tt.wantProgress)
			}
			if f.MonthsKnown != tt.monthsKnown {
				t.Fatalf("MonthsKnown = %v, want %v", f.MonthsKnown, tt.monthsKnown)
			}
			if tt.monthsKnown && f.Months != tt.wantMonths {
				t.Errorf("Months = %d, want %d", f.Months, tt.wantMonths)
			}
			if f.DateKnown != tt.dateKnown {
				t.Fatalf("DateKnown = %v, want %v", f.DateKnown, tt.dateKnown)
			}
			if tt.dateKnown && f.Date.ISO() != tt.wantDate {
				t.Errorf("Date = %s, want %s", f.Date.ISO(), tt.wantDate)
			}
		})
	}
}

func TestForecastProgressClamp(t *testing.T) {
	f := Forecast(Goal{Name: "X", Target: decimal.NewFromInt(100), Saved: decimal.NewFromInt(250)}, nil, nowOct)
	if !f.ProgressPct.Equal(dec("100")) {
		t.Errorf("ProgressPct = %s, want clamped 100", f.ProgressPct)
	}
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		from   time.Time
		months int
		want   string
	}{
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1, "2025-02-28"},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, "2024-02-29"},
		{time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC), 5, "2026-03-20"},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), 13, "2026-04-30"},
	}
	for _, tt := range tests {
		if got := addMonthsClamped(tt.from, tt.months).ISO(); got != tt.want {
			t.Errorf("addMonthsClamped(%s, %d) = %s, want %s", tt.from.Format("2006-01-02"), tt.months, got, tt.want)
		}
	}
}
