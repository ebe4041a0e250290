package core

import (
	"fmt"
	"math"
	"sort"
)

const (
	SeverityError   AlertSeverity = "error"
	SeverityWarning AlertSeverity = "warning"

	AlertDailyBudget    AlertCategory = "daily_budget"
	AlertCategoryBudget AlertCategory = "category_budget"
)

// Fractions of a budget that trigger warnings.
const (
	dailyWarnFraction    = 0.2 // warn when less than 20% of the daily limit is left
	categoryWarnFraction = 0.8 // warn when more than 80% of a category limit is spent
)

type (
	AlertSeverity string
	AlertCategory string

	// Alert is a threshold violation surfaced on the dashboard.
	Alert struct {
		Severity AlertSeverity
		Category AlertCategory
		Message  string
	}

	// YearlyGoal tracks progress toward the combined save-and-payoff target.
	YearlyGoal struct {
		TotalTarget     Money
		CurrentProgress Money
		ProgressPercent float64
		Remaining       Money
		PaidDebt        Money
		SavingsGrowth   Money
		RemainingMonths int
		MonthlyTarget   Money
	}

	// TodayReport covers the reference day.
	TodayReport struct {
		Date            Date
		Expense         Money
		RemainingBudget Money // negative when over budget; not clamped
		DailyLimit      Money
		Transactions    []Transaction
	}

	// MonthlyReport covers the reference month.
	MonthlyReport struct {
		YearMonth  string // YYYY-MM
		Income     Money
		Expense    Money
		Balance    Money
		ByCategory map[string]Money
	}

	// SavingsReport reconstructs savings from the ledger rather than the
	// stored goal field, so the snapshot stays self-consistent.
	SavingsReport struct {
		Current         Money
		Target          Money
		Initial         Money
		Growth          Money
		ProgressPercent float64
		NetWorth        Money
		NetWorthTarget  Money
	}

	// DebtStatus pairs a debt with its payoff progress.
	DebtStatus struct {
		Debt
		ProgressPercent float64
	}

	// DashboardSnapshot is the complete derived report for one reference
	// date. It is recomputed from current state on every request and is
	// never a source of truth itself.
	DashboardSnapshot struct {
		YearlyGoal       YearlyGoal
		Today            TodayReport
		Monthly          MonthlyReport
		Savings          SavingsReport
		Debts            []DebtStatus
		TotalDebt        Money
		Budgets          map[string]Money
		BudgetUsage      map[string]Money
		Alerts           []Alert
		DailyBudgetLimit Money
	}
)

// ComputeDashboard synthesizes one consistent snapshot from the four record
// sets at the given reference date. It is a pure function: the caller must
// hand it inputs read at a single point in time, and identical inputs
// always produce an identical snapshot.
func ComputeDashboard(goal GoalConfig, debts []Debt, budgets []BudgetLimit, transactions []Transaction, ref Date) DashboardSnapshot {
	w := ResolveWindows(ref)

	var (
		todayExpense int64
		todayTx      []Transaction
		monthIncome  int64
		monthExpense int64
		allIncome    int64
		allExpense   int64
		byCategory   = make(map[string]Money)
	)
	for _, t := range transactions {
		switch t.Kind {
		case KindIncome:
			allIncome += t.Amount.Cents
		case KindExpense:
			allExpense += t.Amount.Cents
		}
		if t.Date.In(w.MonthStart, w.MonthEnd) {
			switch t.Kind {
			case KindIncome:
				monthIncome += t.Amount.Cents
			case KindExpense:
				monthExpense += t.Amount.Cents
				byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
			}
		}
		if t.Date.Equal(w.DayStart) {
			todayTx = append(todayTx, t)
			if t.Kind == KindExpense {
				todayExpense += t.Amount.Cents
			}
		}
	}

	todayRemaining := goal.DailyBudgetLimit.Cents - todayExpense

	var currentTotalDebt int64
	debtStatuses := make([]DebtStatus, 0, len(debts))
	for _, d := range debts {
		if !d.Cleared {
			currentTotalDebt += d.RemainingAmount.Cents
		}
		debtStatuses = append(debtStatuses, DebtStatus{Debt: d, ProgressPercent: DebtProgressPercent(d)})
	}

	// Paid debt may go negative if debt grew beyond the recorded baseline;
	// that is unusual but valid, so it is not clamped.
	paidDebt := goal.InitialTotalDebt.Cents - currentTotalDebt
	currentSavings := goal.InitialSavings.Cents + allIncome - allExpense - paidDebt
	savingsGrowth := currentSavings - goal.InitialSavings.Cents

	totalTarget := goal.SavingsTarget.Cents + goal.InitialTotalDebt.Cents
	currentProgress := currentSavings + paidDebt
	remaining := totalTarget - currentProgress
	if remaining < 0 {
		remaining = 0
	}
	remainingMonths := RemainingMonths(goal, ref)

	budgetMap := make(map[string]Money, len(budgets))
	for _, b := range budgets {
		budgetMap[b.Category] = b.MonthlyLimit
	}

	return DashboardSnapshot{
		YearlyGoal: YearlyGoal{
			TotalTarget:     Money{Cents: totalTarget},
			CurrentProgress: Money{Cents: currentProgress},
			// Above 100 means the goal was exceeded; preserved, not hidden.
			ProgressPercent: Percent1(currentProgress, totalTarget),
			Remaining:       Money{Cents: remaining},
			PaidDebt:        Money{Cents: paidDebt},
			SavingsGrowth:   Money{Cents: savingsGrowth},
			RemainingMonths: remainingMonths,
			MonthlyTarget:   monthlyTarget(remaining, remainingMonths),
		},
		Today: TodayReport{
			Date:            ref,
			Expense:         Money{Cents: todayExpense},
			RemainingBudget: Money{Cents: todayRemaining},
			DailyLimit:      goal.DailyBudgetLimit,
			Transactions:    todayTx,
		},
		Monthly: MonthlyReport{
			YearMonth:  ref.Format("2006-01"),
			Income:     Money{Cents: monthIncome},
			Expense:    Money{Cents: monthExpense},
			Balance:    Money{Cents: monthIncome - monthExpense},
			ByCategory: byCategory,
		},
		Savings: SavingsReport{
			Current:         Money{Cents: currentSavings},
			Target:          goal.SavingsTarget,
			Initial:         goal.InitialSavings,
			Growth:          Money{Cents: savingsGrowth},
			ProgressPercent: Percent1(currentSavings, goal.SavingsTarget.Cents),
			NetWorth:        Money{Cents: currentSavings - currentTotalDebt},
			NetWorthTarget:  goal.SavingsTarget,
		},
		Debts:            debtStatuses,
		TotalDebt:        Money{Cents: currentTotalDebt},
		Budgets:          budgetMap,
		BudgetUsage:      byCategory,
		Alerts:           evaluateAlerts(Money{Cents: todayRemaining}, goal.DailyBudgetLimit, byCategory, budgetMap),
		DailyBudgetLimit: goal.DailyBudgetLimit,
	}
}

// RemainingMonths returns the whole calendar months left in the plan,
// floored at 1 so the monthly target is never a division by zero. At or
// past the plan end it stays 1.
func RemainingMonths(goal GoalConfig, ref Date) int {
	planEnd := goal.StartDate.AddDate(0, goal.TotalMonths, 0)
	if !ref.Before(planEnd) {
		return 1
	}
	elapsed := (ref.Year()-goal.StartDate.Year())*12 + ref.Month() - goal.StartDate.Month()
	if left := goal.TotalMonths - elapsed; left > 1 {
		return left
	}
	return 1
}

// monthlyTarget spreads the remaining amount over the months left, rounded
// to whole yuan. remainingMonths is always >= 1.
func monthlyTarget(remainingCents int64, remainingMonths int) Money {
	perMonth := float64(remainingCents) / float64(remainingMonths) / 100.0
	return Money{Cents: int64(math.Round(perMonth)) * 100}
}

// evaluateAlerts applies the fixed thresholds: at most one daily-budget
// alert, then zero or one alert per spending category in ascending category
// order. Categories without a positive limit never alert.
func evaluateAlerts(todayRemaining, dailyLimit Money, byCategory, budgets map[string]Money) []Alert {
	var alerts []Alert

	if todayRemaining.IsNegative() {
		alerts = append(alerts, Alert{
			Severity: SeverityError,
			Category: AlertDailyBudget,
			Message:  fmt.Sprintf("daily budget exceeded by ¥%.0f", todayRemaining.Abs().Yuan()),
		})
	} else if float64(todayRemaining.Cents) < dailyWarnFraction*float64(dailyLimit.Cents) {
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Category: AlertDailyBudget,
			Message:  fmt.Sprintf("only ¥%.0f left in today's budget", todayRemaining.Yuan()),
		})
	}

	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		spent := byCategory[cat]
		limit := budgets[cat]
		if limit.Cents <= 0 {
			continue
		}
		if spent.Cents > limit.Cents {
			alerts = append(alerts, Alert{
				Severity: SeverityError,
				Category: AlertCategoryBudget,
				Message:  fmt.Sprintf("%s spending is ¥%.0f over its monthly budget", cat, spent.Sub(limit).Yuan()),
			})
		} else if float64(spent.Cents) > categoryWarnFraction*float64(limit.Cents) {
			alerts = append(alerts, Alert{
				Severity: SeverityWarning,
				Category: AlertCategoryBudget,
				Message:  fmt.Sprintf("%s budget is %d%% used", cat, PercentInt(spent.Cents, limit.Cents)),
			})
		}
	}

	return alerts
}
