package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoalForecast is the derived progress view of the savings goal. Months and
// Date carry Known flags: when no goal-tagged spending exists there is
// nothing to extrapolate from and callers render "N/A".
type GoalForecast struct {
	ProgressPct  decimal.Decimal `json:"progressPct"`
	Remaining    decimal.Decimal `json:"remaining"`
	Contribution decimal.Decimal `json:"monthlyContribution"`
	Months       int64           `json:"monthsRemaining"`
	MonthsKnown  bool            `json:"monthsKnown"`
	Date         Date            `json:"forecastedDate"`
	DateKnown    bool            `json:"dateKnown"`
}

const goalTagPrefix = "Goal: "

// GoalTag is the note substring that marks a transaction as a contribution
// to the named goal.
func GoalTag(name string) string { return goalTagPrefix + name }

var hundred = decimal.NewFromInt(100)

// Forecast derives goal progress and a completion estimate from the goal and
// the collection. Contribution is the lifetime sum of goal-tagged expenses;
// the estimate assumes that rate continues per month.
func Forecast(goal Goal, records []Transaction, now time.Time) GoalForecast {
	var f GoalForecast

	if goal.Target.IsPositive() {
		f.ProgressPct = goal.Saved.Div(goal.Target).Mul(hundred)
		if f.ProgressPct.GreaterThan(hundred) {
			f.ProgressPct = hundred
		}
	} else if goal.Saved.GreaterThanOrEqual(goal.Target) {
		f.ProgressPct = hundred
	}

	f.Remaining = goal.Target.Sub(goal.Saved)

	tag := GoalTag(goal.Name)
	for _, t := range records {
		if t.Type == Expense && strings.Contains(t.Note, tag) {
			f.Contribution = f.Contribution.Add(t.Amount.Abs())
		}
	}

	switch {
	case f.Remaining.LessThanOrEqual(decimal.Zero):
		f.Months, f.MonthsKnown = 0, true
	case f.Contribution.IsPositive():
		f.Months = f.Remaining.Div(f.Contribution).Ceil().IntPart()
		f.MonthsKnown = true
	}

	if f.MonthsKnown && f.Months > 0 {
		f.Date = addMonthsClamped(now, int(f.Months))
		f.DateKnown = true
	}
	return f
}

// addMonthsClamped advances by calendar months, clamping the day to the last
// day of the target month (Jan 31 + 1 month is Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) Date {
	y, m, d := t.Date()
	m += time.Month(months)
	for m > 12 {
		m -= 12
		y++
	}
	if last := daysIn(y, m); d > last {
		d = last
	}
	return NewDate(y, int(m), d)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
