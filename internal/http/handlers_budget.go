package http

import "net/http"

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.deps.Budgets.ListBudgets(r.Context(), userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildBudgets(budgets))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetSetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b := req.toBudget()
	if err := s.deps.Budgets.UpsertBudget(r.Context(), userID(r), b); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, budgetOut{Category: b.Category, MonthlyLimit: b.MonthlyLimit.Yuan()})
}
