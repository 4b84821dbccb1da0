package core

import (
	"sort"
	"strings"
)

type (
	SelectorKind int

	// Selector narrows the view to one status, to recurring records, or to a
	// single category. The zero value selects everything.
	Selector struct {
		Kind  SelectorKind
		Value string
	}

	SortKey string

	// Criteria is the full filter/sort request for a transaction view.
	// Stages are conjunctive and applied in a fixed order; see Apply.
	Criteria struct {
		Search   string
		Type     TypeFilter
		Selector Selector
		Start    Date
		End      Date
		Sort     SortKey
	}

	TypeFilter string
)

const (
	SelectAll SelectorKind = iota
	SelectStatus
	SelectRecurring
	SelectCategory
)

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"

	SortDateDesc   SortKey = "dateDesc"
	SortDateAsc    SortKey = "dateAsc"
	SortAmountDesc SortKey = "amountDesc"
	SortAmountAsc  SortKey = "amountAsc"
)

// StatusSelector selects records with the given status.
func StatusSelector(v string) Selector { return Selector{Kind: SelectStatus, Value: v} }

// CategorySelector selects records in exactly the given category.
func CategorySelector(v string) Selector { return Selector{Kind: SelectCategory, Value: v} }

// RecurringSelector selects records tagged recurrent.
func RecurringSelector() Selector { return Selector{Kind: SelectRecurring} }

// ParseSelector decodes the legacy single-string encoding used by clients:
// "all", "recurring", "status:<value>", or a bare category name. It is the
// only place that encoding is interpreted.
func ParseSelector(s string) Selector {
	switch {
	case s == "" || s == "all":
		return Selector{}
	case s == "recurring":
		return RecurringSelector()
	case strings.HasPrefix(s, "status:"):
		return StatusSelector(strings.TrimPrefix(s, "status:"))
	default:
		return CategorySelector(s)
	}
}

func (s Selector) matches(t Transaction) bool {
	switch s.Kind {
	case SelectStatus:
		return string(t.Status) == s.Value
	case SelectRecurring:
		return t.Recurrent
	case SelectCategory:
		return t.Category == s.Value
	default:
		return true
	}
}

// Apply filters and sorts the collection and returns a new slice. The input
// is never modified and applying the same criteria twice yields the same
// result. Stage order: search, type, selector, date range, sort.
func (c Criteria) Apply(records []Transaction) []Transaction {
	out := make([]Transaction, 0, len(records))
	needle := strings.ToLower(c.Search)
	for _, t := range records {
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		if c.Type == TypeIncome && t.Type != Income {
			continue
		}
		if c.Type == TypeExpense && t.Type != Expense {
			continue
		}
		if !c.Selector.matches(t) {
			continue
		}
		// The range applies only when both bounds are set, and is
		// inclusive on both ends.
		if !c.Start.IsZero() && !c.End.IsZero() {
			if t.Date.Before(c.Start.Time) || t.Date.After(c.End.Time) {
				continue
			}
		}
		out = append(out, t)
	}
	sortView(out, c.Sort)
	return out
}

func matchesSearch(t Transaction, needle string) bool {
	return strings.Contains(strings.ToLower(t.Description), needle) ||
		strings.Contains(strings.ToLower(t.Note), needle) ||
		strings.Contains(strings.ToLower(t.Category), needle)
}

// sortView orders in place. Amount keys compare magnitudes, so a ₹500 expense
// outranks a ₹300 income under amountDesc. Unknown keys leave the slice in
// collection order.
func sortView(view []Transaction, key SortKey) {
	switch key {
	case SortDateDesc:
		sort.SliceStable(view, func(i, j int) bool { return view[j].Date.Before(view[i].Date.Time) })
	case SortDateAsc:
		sort.SliceStable(view, func(i, j int) bool { return view[i].Date.Before(view[j].Date.Time) })
	case SortAmountDesc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.Abs().GreaterThan(view[j].Amount.Abs())
		})
	case SortAmountAsc:
		sort.SliceStable(view, func(i, j int) bool {
			return view[i].Amount.Abs().LessThan(view[j].Amount.Abs())
		})
	}
}
