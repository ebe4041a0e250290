package services

import (
	"context"
	"fmt"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

// DebtStore is the slice of the repository the debt operations use. PayDebt
// must serialize concurrent payments to the same debt.
type DebtStore interface {
	InsertDebt(ctx context.Context, userID int64, d core.Debt) (core.Debt, error)
	ListDebts(ctx context.Context, userID int64) ([]core.Debt, error)
	DeleteDebt(ctx context.Context, userID, id int64) error
	PayDebt(ctx context.Context, userID, debtID int64, amount core.Money) (core.Debt, error)
}

type DebtService struct {
	store DebtStore
}

func NewDebtService(store DebtStore) *DebtService {
	return &DebtService{store: store}
}

// Create records a new debt. A missing starting balance defaults to the
// full principal.
func (s *DebtService) Create(ctx context.Context, userID int64, d core.Debt) (core.Debt, error) {
	if d.RemainingAmount.Cents == 0 && !d.Cleared {
		d.RemainingAmount = d.TotalAmount
	}
	d.Cleared = d.RemainingAmount.Cents == 0
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	created, err := s.store.InsertDebt(ctx, userID, d)
	if err != nil {
		return core.Debt{}, fmt.Errorf("save debt: %w", err)
	}
	return created, nil
}

func (s *DebtService) List(ctx context.Context, userID int64) ([]core.Debt, error) {
	debts, err := s.store.ListDebts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return debts, nil
}

// Pay applies a payment and persists the new balance atomically. Negative
// amounts are rejected before any state change.
func (s *DebtService) Pay(ctx context.Context, userID, debtID int64, amount core.Money) (core.Debt, error) {
	if amount.IsNegative() {
		return core.Debt{}, core.ErrInvalidAmount
	}
	return s.store.PayDebt(ctx, userID, debtID, amount)
}

func (s *DebtService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.DeleteDebt(ctx, userID, id)
}
