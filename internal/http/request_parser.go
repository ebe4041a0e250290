package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const maxBodyBytes = 1 << 20

// decodeJSON reads, decodes and validates a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type transactionCreateRequest struct {
	Name     string  `json:"name" validate:"required,max=256"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	Type     string  `json:"type" validate:"required,oneof=income expense"`
	Category string  `json:"category" validate:"omitempty,max=64"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note     string  `json:"note" validate:"omitempty,max=1024"`
}

// toTransaction converts the request into a domain transaction, defaulting
// the date to today when absent.
func (req transactionCreateRequest) toTransaction(today core.Date) (core.Transaction, error) {
	date := today
	if req.Date != "" {
		var err error
		date, err = core.ParseDate(req.Date)
		if err != nil {
			return core.Transaction{}, err
		}
	}
	return core.Transaction{
		Name:     strings.TrimSpace(req.Name),
		Amount:   core.MoneyFromFloat(req.Amount),
		Kind:     core.Kind(req.Type),
		Category: strings.TrimSpace(req.Category),
		Date:     date,
		Note:     strings.TrimSpace(req.Note),
	}, nil
}

type budgetSetRequest struct {
	Category     string  `json:"category" validate:"required,max=64"`
	MonthlyLimit float64 `json:"monthly_limit" validate:"gte=0"`
}

func (req budgetSetRequest) toBudget() core.BudgetLimit {
	return core.BudgetLimit{
		Category:     strings.TrimSpace(req.Category),
		MonthlyLimit: core.MoneyFromFloat(req.MonthlyLimit),
	}
}

type debtCreateRequest struct {
	Name            string   `json:"name" validate:"required,max=256"`
	TotalAmount     float64  `json:"total_amount" validate:"required,gt=0"`
	RemainingAmount *float64 `json:"remaining_amount" validate:"omitempty,gte=0"`
	InterestRate    float64  `json:"interest_rate" validate:"gte=0"`
	DueDate         string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (req debtCreateRequest) toDebt() (core.Debt, error) {
	d := core.Debt{
		Name:         strings.TrimSpace(req.Name),
		TotalAmount:  core.MoneyFromFloat(req.TotalAmount),
		InterestRate: req.InterestRate,
	}
	if req.RemainingAmount != nil {
		d.RemainingAmount = core.MoneyFromFloat(*req.RemainingAmount)
	}
	if req.DueDate != "" {
		due, err := core.ParseDate(req.DueDate)
		if err != nil {
			return core.Debt{}, err
		}
		d.DueDate = due
	}
	return d, nil
}

type debtPaymentRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

type goalCreateRequest struct {
	StartDate        string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	TotalMonths      int     `json:"total_months" validate:"required,min=1,max=600"`
	SavingsTarget    float64 `json:"savings_target" validate:"gte=0"`
	InitialSavings   float64 `json:"initial_savings" validate:"gte=0"`
	CurrentSavings   float64 `json:"current_savings" validate:"gte=0"`
	InitialTotalDebt float64 `json:"initial_total_debt" validate:"gte=0"`
	DailyBudgetLimit float64 `json:"daily_budget_limit" validate:"gte=0"`
	MonthlyIncome    float64 `json:"monthly_income" validate:"gte=0"`
}

func (req goalCreateRequest) toGoal() (core.GoalConfig, error) {
	start, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.GoalConfig{}, err
	}
	return core.GoalConfig{
		StartDate:        start,
		TotalMonths:      req.TotalMonths,
		SavingsTarget:    core.MoneyFromFloat(req.SavingsTarget),
		InitialSavings:   core.MoneyFromFloat(req.InitialSavings),
		CurrentSavings:   core.MoneyFromFloat(req.CurrentSavings),
		InitialTotalDebt: core.MoneyFromFloat(req.InitialTotalDebt),
		DailyBudgetLimit: core.MoneyFromFloat(req.DailyBudgetLimit),
		MonthlyIncome:    core.MoneyFromFloat(req.MonthlyIncome),
	}, nil
}

type goalUpdateRequest struct {
	CurrentSavings   *float64 `json:"current_savings" validate:"omitempty,gte=0"`
	DailyBudgetLimit *float64 `json:"daily_budget_limit" validate:"omitempty,gte=0"`
	MonthlyIncome    *float64 `json:"monthly_income" validate:"omitempty,gte=0"`
}

type initRequest struct {
	Goal    goalCreateRequest   `json:"goal" validate:"required"`
	Debts   []debtCreateRequest `json:"debts" validate:"omitempty,dive"`
	Budgets []budgetSetRequest  `json:"budgets" validate:"omitempty,dive"`
}
