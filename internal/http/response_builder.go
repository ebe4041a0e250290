package http

import (
	"github.com/tongxing977-max/project50k-backend/internal/core"
)

// Wire representations. Field names and nesting are the compatibility
// contract with UI consumers; amounts cross the boundary as float yuan.

type transactionOut struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	Note      string  `json:"note,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

func buildTransaction(t core.Transaction) transactionOut {
	out := transactionOut{
		ID:       t.ID,
		Name:     t.Name,
		Amount:   t.Amount.Yuan(),
		Type:     string(t.Kind),
		Category: t.Category,
		Date:     t.Date.String(),
		Note:     t.Note,
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.Format("2006-01-02 15:04:05")
	}
	return out
}

func buildTransactions(ts []core.Transaction) []transactionOut {
	out := make([]transactionOut, 0, len(ts))
	for _, t := range ts {
		out = append(out, buildTransaction(t))
	}
	return out
}

type debtOut struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	TotalAmount     float64 `json:"total_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	InterestRate    float64 `json:"interest_rate"`
	DueDate         string  `json:"due_date,omitempty"`
	IsCleared       bool    `json:"is_cleared"`
	ProgressPercent float64 `json:"progress_percent"`
}

func buildDebt(d core.Debt, progress float64) debtOut {
	out := debtOut{
		ID:              d.ID,
		Name:            d.Name,
		TotalAmount:     d.TotalAmount.Yuan(),
		RemainingAmount: d.RemainingAmount.Yuan(),
		InterestRate:    d.InterestRate,
		IsCleared:       d.Cleared,
		ProgressPercent: progress,
	}
	if !d.DueDate.IsZero() {
		out.DueDate = d.DueDate.String()
	}
	return out
}

func buildDebts(ds []core.Debt) []debtOut {
	out := make([]debtOut, 0, len(ds))
	for _, d := range ds {
		out = append(out, buildDebt(d, core.DebtProgressPercent(d)))
	}
	return out
}

type goalOut struct {
	StartDate        string  `json:"start_date"`
	TotalMonths      int     `json:"total_months"`
	SavingsTarget    float64 `json:"savings_target"`
	InitialSavings   float64 `json:"initial_savings"`
	CurrentSavings   float64 `json:"current_savings"`
	InitialTotalDebt float64 `json:"initial_total_debt"`
	DailyBudgetLimit float64 `json:"daily_budget_limit"`
	MonthlyIncome    float64 `json:"monthly_income"`
}

func buildGoal(g core.GoalConfig) goalOut {
	return goalOut{
		StartDate:        g.StartDate.String(),
		TotalMonths:      g.TotalMonths,
		SavingsTarget:    g.SavingsTarget.Yuan(),
		InitialSavings:   g.InitialSavings.Yuan(),
		CurrentSavings:   g.CurrentSavings.Yuan(),
		InitialTotalDebt: g.InitialTotalDebt.Yuan(),
		DailyBudgetLimit: g.DailyBudgetLimit.Yuan(),
		MonthlyIncome:    g.MonthlyIncome.Yuan(),
	}
}

type budgetOut struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

func buildBudgets(bs []core.BudgetLimit) []budgetOut {
	out := make([]budgetOut, 0, len(bs))
	for _, b := range bs {
		out = append(out, budgetOut{Category: b.Category, MonthlyLimit: b.MonthlyLimit.Yuan()})
	}
	return out
}

type yearlyGoalOut struct {
	TotalTarget     float64 `json:"total_target"`
	CurrentProgress float64 `json:"current_progress"`
	ProgressPercent float64 `json:"progress_percent"`
	Remaining       float64 `json:"remaining"`
	PaidDebt        float64 `json:"paid_debt"`
	SavingsGrowth   float64 `json:"savings_growth"`
	RemainingMonths int     `json:"remaining_months"`
	MonthlyTarget   float64 `json:"monthly_target"`
}

type todayOut struct {
	Date            string           `json:"date"`
	Expense         float64          `json:"expense"`
	RemainingBudget float64          `json:"remaining_budget"`
	DailyLimit      float64          `json:"daily_limit"`
	Transactions    []transactionOut `json:"transactions"`
}

type monthlyOut struct {
	YearMonth  string             `json:"year_month"`
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Balance    float64            `json:"balance"`
	ByCategory map[string]float64 `json:"by_category"`
}

type savingsOut struct {
	Current         float64 `json:"current"`
	Target          float64 `json:"target"`
	Initial         float64 `json:"initial"`
	Growth          float64 `json:"growth"`
	ProgressPercent float64 `json:"progress_percent"`
	NetWorth        float64 `json:"net_worth"`
	NetWorthTarget  float64 `json:"net_worth_target"`
}

type alertOut struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type dashboardOut struct {
	YearlyGoal       yearlyGoalOut      `json:"yearly_goal"`
	Today            todayOut           `json:"today"`
	Monthly          monthlyOut         `json:"monthly"`
	Savings          savingsOut         `json:"savings"`
	Debts            []debtOut          `json:"debts"`
	TotalDebt        float64            `json:"total_debt"`
	Budgets          map[string]float64 `json:"budgets"`
	BudgetUsage      map[string]float64 `json:"budget_usage"`
	Alerts           []alertOut         `json:"alerts"`
	DailyBudgetLimit float64            `json:"daily_budget_limit"`
}

func buildDashboard(s core.DashboardSnapshot) dashboardOut {
	debts := make([]debtOut, 0, len(s.Debts))
	for _, d := range s.Debts {
		debts = append(debts, buildDebt(d.Debt, d.ProgressPercent))
	}

	alerts := make([]alertOut, 0, len(s.Alerts))
	for _, a := range s.Alerts {
		alerts = append(alerts, alertOut{
			Type:     string(a.Severity),
			Category: string(a.Category),
			Message:  a.Message,
		})
	}

	return dashboardOut{
		YearlyGoal: yearlyGoalOut{
			TotalTarget:     s.YearlyGoal.TotalTarget.Yuan(),
			CurrentProgress: s.YearlyGoal.CurrentProgress.Yuan(),
			ProgressPercent: s.YearlyGoal.ProgressPercent,
			Remaining:       s.YearlyGoal.Remaining.Yuan(),
			PaidDebt:        s.YearlyGoal.PaidDebt.Yuan(),
			SavingsGrowth:   s.YearlyGoal.SavingsGrowth.Yuan(),
			RemainingMonths: s.YearlyGoal.RemainingMonths,
			MonthlyTarget:   s.YearlyGoal.MonthlyTarget.Yuan(),
		},
		Today: todayOut{
			Date:            s.Today.Date.String(),
			Expense:         s.Today.Expense.Yuan(),
			RemainingBudget: s.Today.RemainingBudget.Yuan(),
			DailyLimit:      s.Today.DailyLimit.Yuan(),
			Transactions:    buildTransactions(s.Today.Transactions),
		},
		Monthly: monthlyOut{
			YearMonth:  s.Monthly.YearMonth,
			Income:     s.Monthly.Income.Yuan(),
			Expense:    s.Monthly.Expense.Yuan(),
			Balance:    s.Monthly.Balance.Yuan(),
			ByCategory: moneyMapToYuan(s.Monthly.ByCategory),
		},
		Savings: savingsOut{
			Current:         s.Savings.Current.Yuan(),
			Target:          s.Savings.Target.Yuan(),
			Initial:         s.Savings.Initial.Yuan(),
			Growth:          s.Savings.Growth.Yuan(),
			ProgressPercent: s.Savings.ProgressPercent,
			NetWorth:        s.Savings.NetWorth.Yuan(),
			NetWorthTarget:  s.Savings.NetWorthTarget.Yuan(),
		},
		Debts:            debts,
		TotalDebt:        s.TotalDebt.Yuan(),
		Budgets:          moneyMapToYuan(s.Budgets),
		BudgetUsage:      moneyMapToYuan(s.BudgetUsage),
		Alerts:           alerts,
		DailyBudgetLimit: s.DailyBudgetLimit.Yuan(),
	}
}

func moneyMapToYuan(m map[string]core.Money) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v.Yuan()
	}
	return out
}
