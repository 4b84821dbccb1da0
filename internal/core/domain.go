package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TxnType = "expense"
	Income  TxnType = "income"

	StatusCleared Status = "Cleared"
	StatusPending Status = "Pending"
)

type (
	TxnType string

	Status string

	// Date is a calendar date without a time component, compared and
	// serialized in YYYY-MM-DD form.
	Date struct {
		time.Time
	}

	// Transaction is a single income or expense record. Amount is signed:
	// negative for expenses, positive for income, never zero. Type is stored
	// alongside the sign and must agree with it.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Date        Date            `json:"date"`
		Category    string          `json:"category"`
		SubCategory string          `json:"subCategory,omitempty"`
		Type        TxnType         `json:"type"`
		Note        string          `json:"note,omitempty"`
		Recurrent   bool            `json:"recurrent"`
		Status      Status          `json:"status"`
		LastEdited  time.Time       `json:"lastEdited"`
	}

	// Goal is the single savings goal. Saved is edited directly and is not
	// derived from transaction history; goal-tagged transactions are
	// informational.
	Goal struct {
		Name   string          `json:"name"`
		Target decimal.Decimal `json:"target"`
		Saved  decimal.Decimal `json:"saved"`
	}
)

// ExpenseCategories and IncomeCategories are the fixed category sets. A
// transaction's category must belong to the set matching its type.
var (
	ExpenseCategories = []string{"Food", "Transport", "Bills", "Shopping", "Entertainment", "Health", "Other Expense"}
	IncomeCategories  = []string{"Salary", "Investment", "Gift", "Bonus", "Other Income"}
)

// ValidationError is input rejected before any mutation takes place. The
// message is surfaced to the user as-is.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrEmptyDescription ValidationError = "description must not be empty"
	ErrInvalidAmount    ValidationError = "amount must be a positive number"
	ErrZeroAmount       ValidationError = "amount must not be zero"
	ErrSignMismatch     ValidationError = "amount sign does not match transaction type"
	ErrUnknownCategory  ValidationError = "category does not belong to the transaction type"
	ErrUnknownType      ValidationError = "unknown transaction type"
	ErrUnknownStatus    ValidationError = "unknown status"
	ErrZeroDate         ValidationError = "date must be set"
	ErrGoalTarget       ValidationError = "goal target must be positive"
	ErrGoalSaved        ValidationError = "goal saved amount must not be negative"
)

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var v ValidationError
	return asValidation(err, &v)
}

func asValidation(err error, target *ValidationError) bool {
	for err != nil {
		if v, ok := err.(ValidationError); ok {
			*target = v
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// ISO returns the YYYY-MM-DD form. Lexicographic order on ISO strings equals
// date order.
func (d Date) ISO() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.ISO() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TxnType) Valid() bool { return t == Expense || t == Income }

// Categories returns the category set for the type.
func (t TxnType) Categories() []string {
	if t == Income {
		return IncomeCategories
	}
	return ExpenseCategories
}

func (s Status) Valid() bool { return s == StatusCleared || s == StatusPending }

// TypeOf derives the transaction type from an amount's sign.
func TypeOf(amount decimal.Decimal) TxnType {
	if amount.IsPositive() {
		return Income
	}
	return Expense
}

// Validate checks the record-level invariants: non-empty description,
// non-zero amount whose sign matches the type, a category from the type's
// set, a known status and a set date.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Amount.IsZero() {
		return ErrZeroAmount
	}
	if !t.Type.Valid() {
		return ErrUnknownType
	}
	if TypeOf(t.Amount) != t.Type {
		return ErrSignMismatch
	}
	if !containsString(t.Type.Categories(), t.Category) {
		return ErrUnknownCategory
	}
	if !t.Status.Valid() {
		return ErrUnknownStatus
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (g Goal) Validate() error {
	if !g.Target.IsPositive() {
		return ErrGoalTarget
	}
	if g.Saved.IsNegative() {
		return ErrGoalSaved
	}
	return nil
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
