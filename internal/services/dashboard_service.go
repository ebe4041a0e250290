// Package services orchestrates storage, messaging, and the aggregation
// engine behind the HTTP handlers.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tongxing977-max/project50k-backend/internal/core"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
)

// DashboardStore provides the four record sets as one consistent read.
type DashboardStore interface {
	FetchDashboardInputs(ctx context.Context, userID int64) (storage.DashboardInputs, error)
}

// DashboardService computes the dashboard snapshot for a user. The clock is
// injected so the reference date is explicit and replayable.
type DashboardService struct {
	store DashboardStore
	clock core.Clock
}

func NewDashboardService(store DashboardStore, clock core.Clock) *DashboardService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &DashboardService{store: store, clock: clock}
}

// Overview fetches current state and synthesizes the snapshot. The only
// aborting condition is a missing goal configuration.
func (s *DashboardService) Overview(ctx context.Context, userID int64) (core.DashboardSnapshot, error) {
	inputs, err := s.store.FetchDashboardInputs(ctx, userID)
	if err != nil {
		return core.DashboardSnapshot{}, fmt.Errorf("fetch dashboard inputs: %w", err)
	}

	ref := s.clock.Today()
	snap := core.ComputeDashboard(inputs.Goal, inputs.Debts, inputs.Budgets, inputs.Transactions, ref)

	slog.DebugContext(ctx, "Dashboard computed",
		"user_id", userID,
		"reference_date", ref.String(),
		"alerts", len(snap.Alerts))
	return snap, nil
}
