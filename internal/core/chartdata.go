package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ChartPoint is one labeled value of a chart series.
type ChartPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

const monthLabelLayout = "Jan 06"

// BalancePie projects a summary into income-vs-expense pie slices. Slices
// with no positive value are dropped so an all-expense month still renders.
func BalancePie(s Summary) []ChartPoint {
	var points []ChartPoint
	if s.TotalIncome.IsPositive() {
		points = append(points, ChartPoint{Label: "Total Income", Value: s.TotalIncome})
	}
	if s.TotalExpense.IsPositive() {
		points = append(points, ChartPoint{Label: "Total Expense", Value: s.TotalExpense})
	}
	return points
}

// CategoryPie projects the per-category expense sums, largest first.
func CategoryPie(s Summary) []ChartPoint {
	points := make([]ChartPoint, 0, len(s.ByCategory))
	for _, c := range s.ByCategory {
		points = append(points, ChartPoint{Label: c.Category, Value: c.Amount})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value.GreaterThan(points[j].Value)
	})
	return points
}

// MonthlyNet groups the whole collection by month-year label ("Oct 25") and
// sums signed amounts per group, in first-encounter order.
func MonthlyNet(records []Transaction) []ChartPoint {
	sums := map[string]decimal.Decimal{}
	var order []string
	for _, t := range records {
		label := t.Date.Format(monthLabelLayout)
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] = sums[label].Add(t.Amount)
	}
	points := make([]ChartPoint, 0, len(order))
	for _, label := range order {
		points = append(points, ChartPoint{Label: label, Value: sums[label]})
	}
	return points
}
