package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"

	// CategoryUncategorized marks entries awaiting the external classifier.
	CategoryUncategorized = "uncategorized"
)

type (
	// Kind discriminates ledger entries.
	Kind string

	// Date is a calendar date; the time-of-day part is always midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is an immutable ledger entry. Entries are deletable but
	// never edited.
	Transaction struct {
		ID        int64
		Name      string
		Amount    Money
		Kind      Kind
		Category  string
		Date      Date
		Note      string
		CreatedAt time.Time
	}

	// Debt is a balance record. TotalAmount is the original principal and
	// never changes; RemainingAmount only moves down, via ApplyPayment.
	Debt struct {
		ID              int64
		Name            string
		TotalAmount     Money
		RemainingAmount Money
		InterestRate    float64 // informational, not used in payoff math
		DueDate         Date    // zero when not set
		Cleared         bool
	}

	// GoalConfig is the single per-user plan configuration.
	// CurrentSavings is informational: the dashboard recomputes the
	// authoritative value from the ledger and debt state.
	GoalConfig struct {
		StartDate        Date
		TotalMonths      int
		SavingsTarget    Money
		InitialSavings   Money
		CurrentSavings   Money
		InitialTotalDebt Money
		DailyBudgetLimit Money
		MonthlyIncome    Money // zero when not provided
	}

	// BudgetLimit caps monthly spending for one category. At most one per
	// category; a zero limit means "no limit set".
	BudgetLimit struct {
		Category     string
		MonthlyLimit Money
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyCategory = errors.New("empty category")
	ErrNotConfigured = errors.New("goal not configured")
	ErrNotFound      = errors.New("not found")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// AddDate mirrors time.Time.AddDate but stays in the Date domain.
func (d Date) AddDate(years, months, days int) Date {
	return Date{Time: d.Time.AddDate(years, months, days)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// In reports whether d falls inside [from, to], inclusive on both ends.
func (d Date) In(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// ParseDate reads a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense:
		return nil
	}
	return ErrInvalidKind
}

func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Name)) == 0 {
		return ErrEmptyName
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return t.Date.Validate()
}

func (d Debt) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return ErrEmptyName
	}
	if d.TotalAmount.Cents < 0 || d.RemainingAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if d.RemainingAmount.Cents > d.TotalAmount.Cents {
		return fmt.Errorf("%w: remaining amount exceeds principal", ErrInvalidAmount)
	}
	return nil
}

func (g GoalConfig) Validate() error {
	if err := g.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if g.TotalMonths < 1 {
		return errors.New("total months must be at least 1")
	}
	if g.SavingsTarget.IsNegative() {
		return errors.New("savings target cannot be negative")
	}
	if g.DailyBudgetLimit.IsNegative() {
		return errors.New("daily budget limit cannot be negative")
	}
	if g.InitialTotalDebt.IsNegative() {
		return errors.New("initial total debt cannot be negative")
	}
	return nil
}

func (b BudgetLimit) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.MonthlyLimit.IsNegative() {
		return errors.New("monthly limit cannot be negative")
	}
	return nil
}
