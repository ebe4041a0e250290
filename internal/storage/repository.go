// Package storage persists users, goals, transactions, debts, and budgets
// in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tongxing977-max/project50k-backend/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// User is an account row. Password hashes never leave this package except
// for verification.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// TransactionFilter narrows ListTransactions. Zero dates mean unbounded;
// empty strings mean no filter.
type TransactionFilter struct {
	From     core.Date
	To       core.Date
	Category string
	Kind     core.Kind
	Limit    int
	Offset   int
}

// GoalPatch carries the partially-updatable goal fields. Nil means "leave
// unchanged".
type GoalPatch struct {
	CurrentSavings   *core.Money
	DailyBudgetLimit *core.Money
	MonthlyIncome    *core.Money
}

// DashboardInputs bundles the four record sets one snapshot computation
// needs, all read at the same point in time.
type DashboardInputs struct {
	Goal         core.GoalConfig
	Debts        []core.Debt
	Budgets      []core.BudgetLimit
	Transactions []core.Transaction
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Serialize writers; concurrent debt payments queue up here instead of
	// losing updates.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000; PRAGMA journal_mode = WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, core.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("select user: %w", err)
	}
	u.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	return u, nil
}

// --- goal ---

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID int64) (core.GoalConfig, error) {
	return scanGoal(r.db.QueryRowContext(ctx,
		`SELECT start_date, total_months, savings_target_cents, initial_savings_cents,
		        current_savings_cents, initial_total_debt_cents, daily_budget_limit_cents,
		        monthly_income_cents
		 FROM goals WHERE user_id = ?`, userID))
}

// SaveGoal creates the goal configuration or replaces it wholesale.
func (r *SQLiteRepository) SaveGoal(ctx context.Context, userID int64, g core.GoalConfig) error {
	var monthlyIncome any
	if g.MonthlyIncome.Cents != 0 {
		monthlyIncome = g.MonthlyIncome.Cents
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, start_date, total_months, savings_target_cents,
		                    initial_savings_cents, current_savings_cents, initial_total_debt_cents,
		                    daily_budget_limit_cents, monthly_income_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET
		     start_date = excluded.start_date,
		     total_months = excluded.total_months,
		     savings_target_cents = excluded.savings_target_cents,
		     initial_savings_cents = excluded.initial_savings_cents,
		     current_savings_cents = excluded.current_savings_cents,
		     initial_total_debt_cents = excluded.initial_total_debt_cents,
		     daily_budget_limit_cents = excluded.daily_budget_limit_cents,
		     monthly_income_cents = excluded.monthly_income_cents,
		     updated_at = datetime('now')`,
		userID, g.StartDate.String(), g.TotalMonths, g.SavingsTarget.Cents,
		g.InitialSavings.Cents, g.CurrentSavings.Cents, g.InitialTotalDebt.Cents,
		g.DailyBudgetLimit.Cents, monthlyIncome)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

// UpdateGoal applies a partial update and returns the new configuration.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, userID int64, patch GoalPatch) (core.GoalConfig, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.GoalConfig{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	goal, err := scanGoal(tx.QueryRowContext(ctx,
		`SELECT start_date, total_months, savings_target_cents, initial_savings_cents,
		        current_savings_cents, initial_total_debt_cents, daily_budget_limit_cents,
		        monthly_income_cents
		 FROM goals WHERE user_id = ?`, userID))
	if err != nil {
		return core.GoalConfig{}, err
	}

	if patch.CurrentSavings != nil {
		goal.CurrentSavings = *patch.CurrentSavings
	}
	if patch.DailyBudgetLimit != nil {
		goal.DailyBudgetLimit = *patch.DailyBudgetLimit
	}
	if patch.MonthlyIncome != nil {
		goal.MonthlyIncome = *patch.MonthlyIncome
	}

	var monthlyIncome any
	if goal.MonthlyIncome.Cents != 0 {
		monthlyIncome = goal.MonthlyIncome.Cents
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE goals SET current_savings_cents = ?, daily_budget_limit_cents = ?,
		                  monthly_income_cents = ?, updated_at = datetime('now')
		 WHERE user_id = ?`,
		goal.CurrentSavings.Cents, goal.DailyBudgetLimit.Cents, monthlyIncome, userID); err != nil {
		return core.GoalConfig{}, fmt.Errorf("update goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.GoalConfig{}, fmt.Errorf("commit: %w", err)
	}
	return goal, nil
}

func scanGoal(row *sql.Row) (core.GoalConfig, error) {
	var (
		g             core.GoalConfig
		startDate     string
		monthlyIncome sql.NullInt64
	)
	err := row.Scan(&startDate, &g.TotalMonths, &g.SavingsTarget.Cents, &g.InitialSavings.Cents,
		&g.CurrentSavings.Cents, &g.InitialTotalDebt.Cents, &g.DailyBudgetLimit.Cents, &monthlyIncome)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GoalConfig{}, core.ErrNotConfigured
	}
	if err != nil {
		return core.GoalConfig{}, fmt.Errorf("scan goal: %w", err)
	}
	t, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return core.GoalConfig{}, fmt.Errorf("parse start date: %w", err)
	}
	g.StartDate = core.DateOf(t)
	if monthlyIncome.Valid {
		g.MonthlyIncome = core.Money{Cents: monthlyIncome.Int64}
	}
	return g, nil
}

// --- transactions ---

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, userID int64, t core.Transaction) (int64, error) {
	var note any
	if t.Note != "" {
		note = t.Note
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, name, amount_cents, kind, category, date, note)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, t.Name, t.Amount.Cents, string(t.Kind), t.Category, t.Date.String(), note)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}
	return id, nil
}

// GetTransaction looks a transaction up by id alone; the worker only has
// the id from a queue message.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, kind, category, date, note, created_at
		 FROM transactions WHERE id = ?`, id)
	if err != nil {
		return core.Transaction{}, 0, fmt.Errorf("select transaction: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return core.Transaction{}, 0, core.ErrNotFound
	}
	return scanTransaction(rows)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, name, amount_cents, kind, category, date, note, created_at
	          FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, f.To.String())
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	query += ` ORDER BY date DESC, created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// UpdateTransactionCategory is used by the classification worker once the
// external classifier has named a category.
func (r *SQLiteRepository) UpdateTransactionCategory(ctx context.Context, id int64, category string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET category = ? WHERE id = ?`, category, id)
	if err != nil {
		return fmt.Errorf("update transaction category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (core.Transaction, int64, error) {
	var (
		t         core.Transaction
		userID    int64
		kind      string
		date      string
		note      sql.NullString
		createdAt string
	)
	if err := rows.Scan(&t.ID, &userID, &t.Name, &t.Amount.Cents, &kind, &t.Category, &date, &note, &createdAt); err != nil {
		return core.Transaction{}, 0, fmt.Errorf("scan transaction: %w", err)
	}
	t.Kind = core.Kind(kind)
	t.Note = note.String
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, 0, fmt.Errorf("parse transaction date: %w", err)
	}
	t.Date = core.DateOf(d)
	t.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	return t, userID, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, _, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// --- debts ---

func (r *SQLiteRepository) InsertDebt(ctx context.Context, userID int64, d core.Debt) (core.Debt, error) {
	var dueDate any
	if !d.DueDate.IsZero() {
		dueDate = d.DueDate.String()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (user_id, name, total_amount_cents, remaining_amount_cents, interest_rate, due_date, cleared)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, d.Name, d.TotalAmount.Cents, d.RemainingAmount.Cents, d.InterestRate, dueDate, d.Cleared)
	if err != nil {
		return core.Debt{}, fmt.Errorf("insert debt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Debt{}, fmt.Errorf("debt id: %w", err)
	}
	d.ID = id
	return d, nil
}

func (r *SQLiteRepository) ListDebts(ctx context.Context, userID int64) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, total_amount_cents, remaining_amount_cents, interest_rate, due_date, cleared
		 FROM debts WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()
	return collectDebts(rows)
}

func (r *SQLiteRepository) DeleteDebt(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM debts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete debt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// PayDebt applies a payment inside one transaction: the read-modify-write
// is serialized at the database so concurrent payments to the same debt
// cannot lose updates.
func (r *SQLiteRepository) PayDebt(ctx context.Context, userID, debtID int64, amount core.Money) (core.Debt, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Debt{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, total_amount_cents, remaining_amount_cents, interest_rate, due_date, cleared
		 FROM debts WHERE id = ? AND user_id = ?`, debtID, userID)
	if err != nil {
		return core.Debt{}, fmt.Errorf("select debt: %w", err)
	}
	debts, err := collectDebts(rows)
	rows.Close()
	if err != nil {
		return core.Debt{}, err
	}
	if len(debts) == 0 {
		return core.Debt{}, core.ErrNotFound
	}

	paid, err := core.ApplyPayment(debts[0], amount)
	if err != nil {
		return core.Debt{}, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE debts SET remaining_amount_cents = ?, cleared = ?, updated_at = datetime('now')
		 WHERE id = ?`, paid.RemainingAmount.Cents, paid.Cleared, paid.ID); err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Debt{}, fmt.Errorf("commit: %w", err)
	}
	return paid, nil
}

func collectDebts(rows *sql.Rows) ([]core.Debt, error) {
	var out []core.Debt
	for rows.Next() {
		var (
			d       core.Debt
			dueDate sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Name, &d.TotalAmount.Cents, &d.RemainingAmount.Cents,
			&d.InterestRate, &dueDate, &d.Cleared); err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		if dueDate.Valid {
			if t, err := time.Parse(dateLayout, dueDate.String); err == nil {
				d.DueDate = core.DateOf(t)
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// --- budgets ---

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.BudgetLimit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, monthly_limit_cents FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.BudgetLimit
	for rows.Next() {
		var b core.BudgetLimit
		if err := rows.Scan(&b.Category, &b.MonthlyLimit.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID int64, b core.BudgetLimit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, monthly_limit_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET
		     monthly_limit_cents = excluded.monthly_limit_cents,
		     updated_at = datetime('now')`,
		userID, b.Category, b.MonthlyLimit.Cents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// --- dashboard ---

// FetchDashboardInputs reads the goal, debts, budgets, and full ledger in a
// single transaction so one snapshot computation sees one consistent point
// in time; separate reads could mix states from in-flight writes.
func (r *SQLiteRepository) FetchDashboardInputs(ctx context.Context, userID int64) (DashboardInputs, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return DashboardInputs{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var in DashboardInputs

	in.Goal, err = scanGoal(tx.QueryRowContext(ctx,
		`SELECT start_date, total_months, savings_target_cents, initial_savings_cents,
		        current_savings_cents, initial_total_debt_cents, daily_budget_limit_cents,
		        monthly_income_cents
		 FROM goals WHERE user_id = ?`, userID))
	if err != nil {
		return DashboardInputs{}, err
	}

	debtRows, err := tx.QueryContext(ctx,
		`SELECT id, name, total_amount_cents, remaining_amount_cents, interest_rate, due_date, cleared
		 FROM debts WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return DashboardInputs{}, fmt.Errorf("list debts: %w", err)
	}
	in.Debts, err = collectDebts(debtRows)
	debtRows.Close()
	if err != nil {
		return DashboardInputs{}, err
	}

	budgetRows, err := tx.QueryContext(ctx,
		`SELECT category, monthly_limit_cents FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return DashboardInputs{}, fmt.Errorf("list budgets: %w", err)
	}
	for budgetRows.Next() {
		var b core.BudgetLimit
		if err := budgetRows.Scan(&b.Category, &b.MonthlyLimit.Cents); err != nil {
			budgetRows.Close()
			return DashboardInputs{}, fmt.Errorf("scan budget: %w", err)
		}
		in.Budgets = append(in.Budgets, b)
	}
	if err := budgetRows.Err(); err != nil {
		budgetRows.Close()
		return DashboardInputs{}, err
	}
	budgetRows.Close()

	txRows, err := tx.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, kind, category, date, note, created_at
		 FROM transactions WHERE user_id = ? ORDER BY date DESC, created_at DESC, id DESC`, userID)
	if err != nil {
		return DashboardInputs{}, fmt.Errorf("list transactions: %w", err)
	}
	in.Transactions, err = collectTransactions(txRows)
	txRows.Close()
	if err != nil {
		return DashboardInputs{}, err
	}

	return in, tx.Commit()
}
