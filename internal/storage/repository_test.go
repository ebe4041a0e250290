package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	id, err := repo.CreateUser(context.Background(), "tester", "tester@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return id
}

func testGoal() core.GoalConfig {
	return core.GoalConfig{
		StartDate:        core.NewDate(2026, 1, 1),
		TotalMonths:      12,
		SavingsTarget:    core.Money{Cents: 3000000},
		InitialSavings:   core.Money{Cents: 100000},
		CurrentSavings:   core.Money{Cents: 100000},
		InitialTotalDebt: core.Money{Cents: 2000000},
		DailyBudgetLimit: core.Money{Cents: 10000},
	}
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := seedUser(t, repo)
	u, err := repo.GetUserByUsername(ctx, "tester")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.ID != id || u.Email != "tester@example.com" || u.PasswordHash != "hash" {
		t.Errorf("user = %+v", u)
	}

	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}

func TestGoalSaveAndPatch(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uid := seedUser(t, repo)

	if _, err := repo.GetGoal(ctx, uid); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("missing goal err = %v, want ErrNotConfigured", err)
	}

	goal := testGoal()
	if err := repo.SaveGoal(ctx, uid, goal); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}

	got, err := repo.GetGoal(ctx, uid)
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got != goal {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, goal)
	}
	if got.MonthlyIncome.Cents != 0 {
		t.Errorf("absent monthly income must load as zero, got %d", got.MonthlyIncome.Cents)
	}

	// Save again replaces wholesale.
	goal.SavingsTarget = core.Money{Cents: 5000000}
	if err := repo.SaveGoal(ctx, uid, goal); err != nil {
		t.Fatalf("SaveGoal (update): %v", err)
	}

	limit := core.Money{Cents: 15000}
	patched, err := repo.UpdateGoal(ctx, uid, GoalPatch{DailyBudgetLimit: &limit})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if patched.DailyBudgetLimit != limit {
		t.Errorf("daily limit = %v, want %v", patched.DailyBudgetLimit, limit)
	}
	if patched.SavingsTarget.Cents != 5000000 {
		t.Errorf("unpatched field changed: %v", patched.SavingsTarget)
	}
}

func TestTransactionCRUDAndFilter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uid := seedUser(t, repo)

	entries := []core.Transaction{
		{Name: "salary", Amount: core.Money{Cents: 500000}, Kind: core.KindIncome, Category: "salary", Date: core.NewDate(2026, 3, 1)},
		{Name: "lunch", Amount: core.Money{Cents: 3000}, Kind: core.KindExpense, Category: "food", Date: core.NewDate(2026, 3, 10), Note: "noodles"},
		{Name: "dinner", Amount: core.Money{Cents: 8000}, Kind: core.KindExpense, Category: "food", Date: core.NewDate(2026, 4, 2)},
	}
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		id, err := repo.InsertTransaction(ctx, uid, e)
		if err != nil {
			t.Fatalf("InsertTransaction(%s): %v", e.Name, err)
		}
		ids = append(ids, id)
	}

	got, userID, err := repo.GetTransaction(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if userID != uid || got.Name != "lunch" || got.Note != "noodles" || got.Date.String() != "2026-03-10" {
		t.Errorf("got %+v owner %d", got, userID)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be populated")
	}

	all, err := repo.ListTransactions(ctx, uid, TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].Name != "dinner" {
		t.Errorf("first entry = %s, want newest date first", all[0].Name)
	}

	march, err := repo.ListTransactions(ctx, uid, TransactionFilter{
		From: core.NewDate(2026, 3, 1),
		To:   core.NewDate(2026, 3, 31),
		Kind: core.KindExpense,
	})
	if err != nil {
		t.Fatalf("ListTransactions (filtered): %v", err)
	}
	if len(march) != 1 || march[0].Name != "lunch" {
		t.Errorf("march expenses = %+v, want just lunch", march)
	}

	if err := repo.UpdateTransactionCategory(ctx, ids[0], "bonus"); err != nil {
		t.Fatalf("UpdateTransactionCategory: %v", err)
	}
	updated, _, err := repo.GetTransaction(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetTransaction after update: %v", err)
	}
	if updated.Category != "bonus" {
		t.Errorf("category = %q, want bonus", updated.Category)
	}

	if err := repo.DeleteTransaction(ctx, uid, ids[2]); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, uid, ids[2]); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}

	// A different user cannot delete someone else's entry.
	other, err := repo.CreateUser(ctx, "other", "other@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, other, ids[0]); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("cross-user delete err = %v, want ErrNotFound", err)
	}
}

func TestDebtPayPersistsClamp(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uid := seedUser(t, repo)

	debt, err := repo.InsertDebt(ctx, uid, core.Debt{
		Name:            "card",
		TotalAmount:     core.Money{Cents: 100000},
		RemainingAmount: core.Money{Cents: 100000},
		DueDate:         core.NewDate(2026, 12, 31),
	})
	if err != nil {
		t.Fatalf("InsertDebt: %v", err)
	}

	paid, err := repo.PayDebt(ctx, uid, debt.ID, core.Money{Cents: 40000})
	if err != nil {
		t.Fatalf("PayDebt: %v", err)
	}
	if paid.RemainingAmount.Cents != 60000 || paid.Cleared {
		t.Errorf("after payment: %+v", paid)
	}

	paid, err = repo.PayDebt(ctx, uid, debt.ID, core.Money{Cents: 9999999})
	if err != nil {
		t.Fatalf("PayDebt (overpay): %v", err)
	}
	if paid.RemainingAmount.Cents != 0 || !paid.Cleared {
		t.Errorf("after overpayment: %+v", paid)
	}

	debts, err := repo.ListDebts(ctx, uid)
	if err != nil {
		t.Fatalf("ListDebts: %v", err)
	}
	if len(debts) != 1 || debts[0].RemainingAmount.Cents != 0 || !debts[0].Cleared {
		t.Errorf("persisted state: %+v", debts)
	}
	if debts[0].DueDate.String() != "2026-12-31" {
		t.Errorf("due date = %s", debts[0].DueDate)
	}

	if _, err := repo.PayDebt(ctx, uid, 9999, core.Money{Cents: 1}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown debt err = %v, want ErrNotFound", err)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uid := seedUser(t, repo)

	if err := repo.UpsertBudget(ctx, uid, core.BudgetLimit{Category: "food", MonthlyLimit: core.Money{Cents: 150000}}); err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}
	if err := repo.UpsertBudget(ctx, uid, core.BudgetLimit{Category: "food", MonthlyLimit: core.Money{Cents: 120000}}); err != nil {
		t.Fatalf("UpsertBudget (replace): %v", err)
	}

	budgets, err := repo.ListBudgets(ctx, uid)
	if err != nil {
		t.Fatalf("ListBudgets: %v", err)
	}
	if len(budgets) != 1 {
		t.Fatalf("len(budgets) = %d, want 1 after upsert", len(budgets))
	}
	if budgets[0].MonthlyLimit.Cents != 120000 {
		t.Errorf("limit = %d, want replaced value", budgets[0].MonthlyLimit.Cents)
	}
}

func TestFetchDashboardInputs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	uid := seedUser(t, repo)

	if _, err := repo.FetchDashboardInputs(ctx, uid); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("without goal err = %v, want ErrNotConfigured", err)
	}

	if err := repo.SaveGoal(ctx, uid, testGoal()); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}
	if _, err := repo.InsertDebt(ctx, uid, core.Debt{Name: "card", TotalAmount: core.Money{Cents: 2000000}, RemainingAmount: core.Money{Cents: 2000000}}); err != nil {
		t.Fatalf("InsertDebt: %v", err)
	}
	if err := repo.UpsertBudget(ctx, uid, core.BudgetLimit{Category: "food", MonthlyLimit: core.Money{Cents: 150000}}); err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}
	if _, err := repo.InsertTransaction(ctx, uid, core.Transaction{
		Name: "lunch", Amount: core.Money{Cents: 3000}, Kind: core.KindExpense,
		Category: "food", Date: core.NewDate(2026, 3, 10),
	}); err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}

	in, err := repo.FetchDashboardInputs(ctx, uid)
	if err != nil {
		t.Fatalf("FetchDashboardInputs: %v", err)
	}
	if in.Goal.TotalMonths != 12 {
		t.Errorf("goal = %+v", in.Goal)
	}
	if len(in.Debts) != 1 || len(in.Budgets) != 1 || len(in.Transactions) != 1 {
		t.Errorf("counts = %d debts, %d budgets, %d transactions, want 1 each",
			len(in.Debts), len(in.Budgets), len(in.Transactions))
	}
}
