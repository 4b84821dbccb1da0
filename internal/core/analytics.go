package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// CategoryAmount is one expense category with its absolute total.
	CategoryAmount struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// Runway is how many days the current balance lasts at the observed
	// burn rate. Infinite means no expenses were recorded at all.
	Runway struct {
		Days     int64 `json:"days"`
		Infinite bool  `json:"infinite"`
	}

	// Summary is the full set of aggregates derived from one pass over the
	// collection. All expense figures are absolute values; HighestExpense
	// keeps its sign so callers can tell "no expenses" (zero) from a real one.
	Summary struct {
		TotalIncome     decimal.Decimal  `json:"totalIncome"`
		TotalExpense    decimal.Decimal  `json:"totalExpense"`
		Balance         decimal.Decimal  `json:"balance"`
		MonthlyIncome   decimal.Decimal  `json:"monthlyIncome"`
		MonthlyExpense  decimal.Decimal  `json:"monthlyExpense"`
		HighestExpense  decimal.Decimal  `json:"highestExpense"`
		HighestIncome   decimal.Decimal  `json:"highestIncome"`
		ByCategory      []CategoryAmount `json:"byCategory"`
		TopCategories   []CategoryAmount `json:"topCategories"`
		DistinctDays    int              `json:"distinctDays"`
		AvgDailySpend   decimal.Decimal  `json:"avgDailySpending"`
		Runway          Runway           `json:"runway"`
		TrendPct        decimal.Decimal  `json:"trendPct"`
		MonthlyNet      decimal.Decimal  `json:"monthlyNet"`
		PrevMonthSpend  decimal.Decimal  `json:"prevMonthExpense"`
		TransactionsNum int              `json:"transactionCount"`
	}
)

// Summarize folds the collection into a Summary. Pure: the collection is not
// modified and the only time dependency is the supplied now.
func Summarize(records []Transaction, now time.Time) Summary {
	var (
		s         Summary
		days      = map[string]struct{}{}
		byCat     = map[string]decimal.Decimal{}
		catOrder  []string
		curMonth  = int(now.Month())
		curYear   = now.Year()
		prevMonth = curMonth - 1
	)
	s.TransactionsNum = len(records)

	for _, t := range records {
		days[t.Date.ISO()] = struct{}{}

		sameYear := t.Date.Year() == curYear
		inMonth := sameYear && int(t.Date.Month()) == curMonth
		inPrev := sameYear && int(t.Date.Month()) == prevMonth

		if t.Type == Income {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			if inMonth {
				s.MonthlyIncome = s.MonthlyIncome.Add(t.Amount)
			}
			if t.Amount.GreaterThan(s.HighestIncome) {
				s.HighestIncome = t.Amount
			}
			continue
		}

		abs := t.Amount.Abs()
		s.TotalExpense = s.TotalExpense.Add(abs)
		if inMonth {
			s.MonthlyExpense = s.MonthlyExpense.Add(abs)
		}
		if inPrev {
			s.PrevMonthSpend = s.PrevMonthSpend.Add(abs)
		}
		if t.Amount.LessThan(s.HighestExpense) {
			s.HighestExpense = t.Amount
		}
		if _, seen := byCat[t.Category]; !seen {
			catOrder = append(catOrder, t.Category)
		}
		byCat[t.Category] = byCat[t.Category].Add(abs)
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	s.MonthlyNet = s.MonthlyIncome.Sub(s.MonthlyExpense)

	s.ByCategory = make([]CategoryAmount, 0, len(catOrder))
	for _, c := range catOrder {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Category: c, Amount: byCat[c]})
	}
	s.TopCategories = topCategories(s.ByCategory, 5)

	s.DistinctDays = len(days)
	if s.DistinctDays < 1 {
		s.DistinctDays = 1
	}
	s.AvgDailySpend = s.TotalExpense.Div(decimal.NewFromInt(int64(s.DistinctDays)))
	s.Runway = runway(s.Balance, s.TotalExpense, s.AvgDailySpend)
	s.TrendPct = trend(s.MonthlyExpense, s.PrevMonthSpend)
	return s
}

func topCategories(byCategory []CategoryAmount, n int) []CategoryAmount {
	top := make([]CategoryAmount, len(byCategory))
	copy(top, byCategory)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Amount.GreaterThan(top[j].Amount)
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// runway floors balance over the daily burn rate. A collection with no
// expenses has no burn rate, which reads as an infinite runway rather than a
// division by zero.
func runway(balance, totalExpense, avgDaily decimal.Decimal) Runway {
	if totalExpense.IsZero() {
		return Runway{Infinite: true}
	}
	return Runway{Days: balance.Div(avgDaily).Floor().IntPart()}
}

// trend is the month-over-month spending change in percent. A zero previous
// month divides by one instead, so a first month of spending reads as +100%
// per unit rather than an error.
func trend(monthly, prev decimal.Decimal) decimal.Decimal {
	div := prev
	if div.IsZero() {
		div = decimal.NewFromInt(1)
	}
	return monthly.Sub(prev).Div(div).Mul(decimal.NewFromInt(100))
}
