package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Name:     "lunch",
		Amount:   MoneyFromFloat(25),
		Kind:     KindExpense,
		Category: "food",
		Date:     NewDate(2026, 1, 15),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(*Transaction)
		want error
	}{
		{"empty name", func(tx *Transaction) { tx.Name = " " }, ErrEmptyName},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = MoneyFromFloat(-5) }, ErrInvalidAmount},
		{"bad kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"empty category", func(tx *Transaction) { tx.Category = "" }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			err := tx.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestGoalConfigValidate(t *testing.T) {
	good := GoalConfig{
		StartDate:        NewDate(2025, 11, 28),
		TotalMonths:      12,
		SavingsTarget:    MoneyFromFloat(50000),
		DailyBudgetLimit: MoneyFromFloat(150),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.TotalMonths = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero months")
	}
	bad = good
	bad.SavingsTarget = MoneyFromFloat(-1)
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative target")
	}
	bad = good
	bad.StartDate = Date{}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero start date")
	}
}

func TestDebtValidate(t *testing.T) {
	good := Debt{Name: "card", TotalAmount: MoneyFromFloat(6000), RemainingAmount: MoneyFromFloat(6000)}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.RemainingAmount = MoneyFromFloat(7000)
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error when remaining exceeds principal")
	}
}

func TestDateIn(t *testing.T) {
	from, to := NewDate(2026, 1, 1), NewDate(2026, 1, 31)
	if !NewDate(2026, 1, 1).In(from, to) || !NewDate(2026, 1, 31).In(from, to) {
		t.Fatal("window bounds are inclusive")
	}
	if NewDate(2025, 12, 31).In(from, to) || NewDate(2026, 2, 1).In(from, to) {
		t.Fatal("dates outside the window must not match")
	}
}
