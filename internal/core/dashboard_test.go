package core

import (
	"reflect"
	"testing"
)

func testGoal() GoalConfig {
	return GoalConfig{
		StartDate:        NewDate(2025, 11, 28),
		TotalMonths:      12,
		SavingsTarget:    MoneyFromFloat(50000),
		InitialSavings:   MoneyFromFloat(11150),
		CurrentSavings:   MoneyFromFloat(11150),
		InitialTotalDebt: MoneyFromFloat(21800),
		DailyBudgetLimit: MoneyFromFloat(150),
		MonthlyIncome:    MoneyFromFloat(10600),
	}
}

func expense(amount float64, category string, date Date) Transaction {
	return Transaction{Name: category, Amount: MoneyFromFloat(amount), Kind: KindExpense, Category: category, Date: date}
}

func income(amount float64, date Date) Transaction {
	return Transaction{Name: "salary", Amount: MoneyFromFloat(amount), Kind: KindIncome, Category: "salary", Date: date}
}

func TestComputeDashboardDailyOverspend(t *testing.T) {
	// Daily limit 150, today's expenses 180: one error alert for the 30 overspend.
	ref := NewDate(2026, 1, 15)
	snap := ComputeDashboard(testGoal(), nil, nil, []Transaction{
		expense(100, "food", ref),
		expense(80, "shopping", ref),
	}, ref)

	if snap.Today.Expense.Cents != 18000 {
		t.Fatalf("today expense = %d, want 18000", snap.Today.Expense.Cents)
	}
	if snap.Today.RemainingBudget.Cents != -3000 {
		t.Fatalf("remaining budget = %d, want -3000", snap.Today.RemainingBudget.Cents)
	}
	if len(snap.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(snap.Alerts))
	}
	a := snap.Alerts[0]
	if a.Severity != SeverityError || a.Category != AlertDailyBudget {
		t.Fatalf("alert = %+v, want daily_budget error", a)
	}
	if a.Message != "daily budget exceeded by ¥30" {
		t.Fatalf("message = %q", a.Message)
	}
}

func TestComputeDashboardDailyWarning(t *testing.T) {
	// Daily limit 150, spent 130: 20 left, below the 20%% threshold of 30.
	ref := NewDate(2026, 1, 15)
	snap := ComputeDashboard(testGoal(), nil, nil, []Transaction{expense(130, "food", ref)}, ref)

	if snap.Today.RemainingBudget.Cents != 2000 {
		t.Fatalf("remaining budget = %d, want 2000", snap.Today.RemainingBudget.Cents)
	}
	if len(snap.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(snap.Alerts))
	}
	a := snap.Alerts[0]
	if a.Severity != SeverityWarning || a.Category != AlertDailyBudget {
		t.Fatalf("alert = %+v, want daily_budget warning", a)
	}
}

func TestComputeDashboardCategoryAlerts(t *testing.T) {
	ref := NewDate(2026, 1, 15)
	budgets := []BudgetLimit{{Category: "food", MonthlyLimit: MoneyFromFloat(2000)}}
	spread := NewDate(2026, 1, 3) // keep the daily window quiet

	t.Run("over limit", func(t *testing.T) {
		snap := ComputeDashboard(testGoal(), nil, budgets, []Transaction{
			expense(2100, "food", spread),
		}, ref)
		if len(snap.Alerts) != 1 {
			t.Fatalf("alerts = %d, want 1", len(snap.Alerts))
		}
		a := snap.Alerts[0]
		if a.Severity != SeverityError || a.Category != AlertCategoryBudget {
			t.Fatalf("alert = %+v, want category_budget error", a)
		}
		if a.Message != "food spending is ¥100 over its monthly budget" {
			t.Fatalf("message = %q", a.Message)
		}
	})

	t.Run("above eighty percent", func(t *testing.T) {
		snap := ComputeDashboard(testGoal(), nil, budgets, []Transaction{
			expense(1700, "food", spread),
		}, ref)
		if len(snap.Alerts) != 1 {
			t.Fatalf("alerts = %d, want 1", len(snap.Alerts))
		}
		a := snap.Alerts[0]
		if a.Severity != SeverityWarning || a.Message != "food budget is 85% used" {
			t.Fatalf("alert = %+v", a)
		}
	})

	t.Run("no limit set suppresses alerting", func(t *testing.T) {
		snap := ComputeDashboard(testGoal(), nil, nil, []Transaction{
			expense(9000, "shopping", spread),
		}, ref)
		if len(snap.Alerts) != 0 {
			t.Fatalf("alerts = %v, want none", snap.Alerts)
		}
	})
}

func TestComputeDashboardAlertOrdering(t *testing.T) {
	// Daily alert first, then category alerts in ascending category order.
	ref := NewDate(2026, 1, 15)
	budgets := []BudgetLimit{
		{Category: "food", MonthlyLimit: MoneyFromFloat(100)},
		{Category: "entertainment", MonthlyLimit: MoneyFromFloat(100)},
	}
	snap := ComputeDashboard(testGoal(), nil, budgets, []Transaction{
		expense(200, "food", ref),
		expense(150, "entertainment", NewDate(2026, 1, 2)),
	}, ref)

	if len(snap.Alerts) != 3 {
		t.Fatalf("alerts = %d, want 3", len(snap.Alerts))
	}
	if snap.Alerts[0].Category != AlertDailyBudget {
		t.Fatalf("first alert = %+v, want daily_budget", snap.Alerts[0])
	}
	if snap.Alerts[1].Message != "entertainment spending is ¥50 over its monthly budget" {
		t.Fatalf("second alert = %q", snap.Alerts[1].Message)
	}
	if snap.Alerts[2].Message != "food spending is ¥100 over its monthly budget" {
		t.Fatalf("third alert = %q", snap.Alerts[2].Message)
	}
}

func TestComputeDashboardYearlyGoal(t *testing.T) {
	// Income 10000 and expenses 4000 all-time, 1000 of debt already paid:
	// savings 11150+10000-4000-1000 = 16150, progress 17150 of 71800 = 23.9%.
	ref := NewDate(2026, 1, 15)
	debts := []Debt{
		{Name: "loan", TotalAmount: MoneyFromFloat(21800), RemainingAmount: MoneyFromFloat(20800)},
	}
	snap := ComputeDashboard(testGoal(), debts, nil, []Transaction{
		income(10000, NewDate(2025, 12, 5)),
		expense(4000, "other", NewDate(2025, 12, 20)),
	}, ref)

	yg := snap.YearlyGoal
	if yg.TotalTarget.Cents != 7180000 {
		t.Fatalf("total target = %d, want 7180000", yg.TotalTarget.Cents)
	}
	if yg.PaidDebt.Cents != 100000 {
		t.Fatalf("paid debt = %d, want 100000", yg.PaidDebt.Cents)
	}
	if snap.Savings.Current.Cents != 1615000 {
		t.Fatalf("current savings = %d, want 1615000", snap.Savings.Current.Cents)
	}
	if yg.CurrentProgress.Cents != 1715000 {
		t.Fatalf("current progress = %d, want 1715000", yg.CurrentProgress.Cents)
	}
	if yg.ProgressPercent != 23.9 {
		t.Fatalf("progress percent = %v, want 23.9", yg.ProgressPercent)
	}
	if yg.Remaining.Cents != 7180000-1715000 {
		t.Fatalf("remaining = %d", yg.Remaining.Cents)
	}
	if snap.Savings.NetWorth.Cents != 1615000-2080000 {
		t.Fatalf("net worth = %d", snap.Savings.NetWorth.Cents)
	}
	if snap.TotalDebt.Cents != 2080000 {
		t.Fatalf("total debt = %d, want 2080000", snap.TotalDebt.Cents)
	}
}

func TestComputeDashboardMonthlyBreakdown(t *testing.T) {
	ref := NewDate(2026, 1, 15)
	snap := ComputeDashboard(testGoal(), nil, nil, []Transaction{
		income(10600, NewDate(2026, 1, 1)),
		expense(120, "food", NewDate(2026, 1, 3)),
		expense(80, "food", NewDate(2026, 1, 10)),
		expense(50, "traffic", NewDate(2026, 1, 12)),
		expense(999, "food", NewDate(2025, 12, 30)), // previous month, excluded
	}, ref)

	m := snap.Monthly
	if m.YearMonth != "2026-01" {
		t.Fatalf("year month = %q", m.YearMonth)
	}
	if m.Income.Cents != 1060000 || m.Expense.Cents != 25000 {
		t.Fatalf("income/expense = %d/%d", m.Income.Cents, m.Expense.Cents)
	}
	if m.Balance.Cents != 1035000 {
		t.Fatalf("balance = %d", m.Balance.Cents)
	}
	want := map[string]Money{"food": {Cents: 20000}, "traffic": {Cents: 5000}}
	if !reflect.DeepEqual(m.ByCategory, want) {
		t.Fatalf("by category = %v, want %v", m.ByCategory, want)
	}
	// Categories with zero expense are absent, and budget usage mirrors the
	// month's category breakdown.
	if _, ok := m.ByCategory["salary"]; ok {
		t.Fatal("income category leaked into expense breakdown")
	}
	if !reflect.DeepEqual(snap.BudgetUsage, want) {
		t.Fatalf("budget usage = %v, want %v", snap.BudgetUsage, want)
	}
}

func TestComputeDashboardTodayTransactions(t *testing.T) {
	ref := NewDate(2026, 1, 15)
	txs := []Transaction{
		expense(30, "food", ref),
		income(200, ref),
		expense(10, "traffic", NewDate(2026, 1, 14)),
	}
	snap := ComputeDashboard(testGoal(), nil, nil, txs, ref)
	if len(snap.Today.Transactions) != 2 {
		t.Fatalf("today transactions = %d, want 2", len(snap.Today.Transactions))
	}
	// Income counts in the day's list but not in the day's expense total.
	if snap.Today.Expense.Cents != 3000 {
		t.Fatalf("today expense = %d, want 3000", snap.Today.Expense.Cents)
	}
}

func TestComputeDashboardIdempotent(t *testing.T) {
	ref := NewDate(2026, 1, 15)
	goal := testGoal()
	debts := []Debt{
		{Name: "a", TotalAmount: MoneyFromFloat(6000), RemainingAmount: MoneyFromFloat(2000)},
		{Name: "b", TotalAmount: MoneyFromFloat(800), RemainingAmount: Money{}, Cleared: true},
	}
	budgets := []BudgetLimit{{Category: "food", MonthlyLimit: MoneyFromFloat(2000)}}
	txs := []Transaction{
		income(10600, NewDate(2026, 1, 1)),
		expense(1900, "food", NewDate(2026, 1, 5)),
		expense(145, "food", ref),
	}

	first := ComputeDashboard(goal, debts, budgets, txs, ref)
	second := ComputeDashboard(goal, debts, budgets, txs, ref)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different snapshots")
	}
}

func TestComputeDashboardDegenerateGoal(t *testing.T) {
	// Zero targets are valid degenerate states: every percentage falls back
	// to 0 instead of dividing by zero.
	ref := NewDate(2026, 1, 15)
	goal := GoalConfig{StartDate: NewDate(2026, 1, 1), TotalMonths: 1}
	snap := ComputeDashboard(goal, nil, nil, nil, ref)

	if snap.YearlyGoal.ProgressPercent != 0 {
		t.Fatalf("progress percent = %v, want 0", snap.YearlyGoal.ProgressPercent)
	}
	if snap.Savings.ProgressPercent != 0 {
		t.Fatalf("savings percent = %v, want 0", snap.Savings.ProgressPercent)
	}
	if snap.YearlyGoal.RemainingMonths < 1 {
		t.Fatalf("remaining months = %d, want >= 1", snap.YearlyGoal.RemainingMonths)
	}
}

func TestComputeDashboardExceededGoalUnclamped(t *testing.T) {
	ref := NewDate(2026, 1, 15)
	goal := GoalConfig{
		StartDate:     NewDate(2025, 11, 28),
		TotalMonths:   12,
		SavingsTarget: MoneyFromFloat(1000),
	}
	snap := ComputeDashboard(goal, nil, nil, []Transaction{income(3000, NewDate(2026, 1, 2))}, ref)
	if snap.YearlyGoal.ProgressPercent <= 100 {
		t.Fatalf("progress percent = %v, want > 100", snap.YearlyGoal.ProgressPercent)
	}
	if snap.YearlyGoal.Remaining.Cents != 0 {
		t.Fatalf("remaining = %d, want clamped to 0", snap.YearlyGoal.Remaining.Cents)
	}
}

func TestRemainingMonths(t *testing.T) {
	goal := GoalConfig{StartDate: NewDate(2025, 11, 28), TotalMonths: 12}
	cases := []struct {
		name string
		ref  Date
		want int
	}{
		{"at start", NewDate(2025, 11, 28), 12},
		{"same month later day", NewDate(2025, 11, 30), 12},
		{"two months in", NewDate(2026, 1, 15), 10},
		{"day of month ignored", NewDate(2026, 1, 1), 10},
		{"last month", NewDate(2026, 10, 28), 1},
		{"at plan end", NewDate(2026, 11, 28), 1},
		{"after plan end", NewDate(2030, 5, 1), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RemainingMonths(goal, tc.ref); got != tc.want {
				t.Fatalf("RemainingMonths(%s) = %d, want %d", tc.ref, got, tc.want)
			}
		})
	}
}

func TestMonthlyTargetRounding(t *testing.T) {
	// 10000 yuan over 3 months rounds to whole yuan per month.
	got := monthlyTarget(1000000, 3)
	if got.Cents != 333300 {
		t.Fatalf("monthly target = %d, want 333300", got.Cents)
	}
	if got := monthlyTarget(0, 1); got.Cents != 0 {
		t.Fatalf("monthly target = %d, want 0", got.Cents)
	}
}
