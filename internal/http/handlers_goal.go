package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tongxing977-max/project50k-backend/internal/core"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
)

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := s.deps.Goals.GetGoal(r.Context(), userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildGoal(goal))
}

func (s *Server) handleSaveGoal(w http.ResponseWriter, r *http.Request) {
	var req goalCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	goal, err := req.toGoal()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := goal.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.deps.Goals.SaveGoal(r.Context(), userID(r), goal); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, buildGoal(goal))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch storage.GoalPatch
	if req.CurrentSavings != nil {
		m := core.MoneyFromFloat(*req.CurrentSavings)
		patch.CurrentSavings = &m
	}
	if req.DailyBudgetLimit != nil {
		m := core.MoneyFromFloat(*req.DailyBudgetLimit)
		patch.DailyBudgetLimit = &m
	}
	if req.MonthlyIncome != nil {
		m := core.MoneyFromFloat(*req.MonthlyIncome)
		patch.MonthlyIncome = &m
	}

	updated, err := s.deps.Goals.UpdateGoal(r.Context(), userID(r), patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildGoal(updated))
}

// handleInit seeds a fresh account with its goal, starting debts, and
// category budgets in one call. It refuses to run twice.
func (s *Server) handleInit(w http.ResponseWriter, r *http.Request) {
	var req initRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	uid := userID(r)
	if _, err := s.deps.Goals.GetGoal(r.Context(), uid); err == nil {
		writeError(w, http.StatusConflict, "already initialized")
		return
	} else if !errors.Is(err, core.ErrNotConfigured) {
		writeDomainError(w, err)
		return
	}

	goal, err := req.Goal.toGoal()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := goal.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.deps.Goals.SaveGoal(r.Context(), uid, goal); err != nil {
		writeDomainError(w, err)
		return
	}

	debts := make([]debtOut, 0, len(req.Debts))
	for _, dreq := range req.Debts {
		debt, err := dreq.toDebt()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.deps.Debts.Create(r.Context(), uid, debt)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		debts = append(debts, buildDebt(created, core.DebtProgressPercent(created)))
	}

	budgets := make([]budgetOut, 0, len(req.Budgets))
	for _, breq := range req.Budgets {
		b := breq.toBudget()
		if err := s.deps.Budgets.UpsertBudget(r.Context(), uid, b); err != nil {
			writeDomainError(w, err)
			return
		}
		budgets = append(budgets, budgetOut{Category: b.Category, MonthlyLimit: b.MonthlyLimit.Yuan()})
	}

	slog.Info("Account initialized", "user_id", uid, "debts", len(debts), "budgets", len(budgets))
	writeJSON(w, http.StatusCreated, map[string]any{
		"goal":    buildGoal(goal),
		"debts":   debts,
		"budgets": budgets,
	})
}
