package http

import (
	"net/http"

	"github.com/tongxing977-max/project50k-backend/internal/core"
)

func (s *Server) handleCreateDebt(w http.ResponseWriter, r *http.Request) {
	var req debtCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	debt, err := req.toDebt()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.deps.Debts.Create(r.Context(), userID(r), debt)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, buildDebt(created, core.DebtProgressPercent(created)))
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := s.deps.Debts.List(r.Context(), userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildDebts(debts))
}

func (s *Server) handlePayDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debt id")
		return
	}

	var req debtPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	paid, err := s.deps.Debts.Pay(r.Context(), userID(r), id, core.MoneyFromFloat(req.Amount))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildDebt(paid, core.DebtProgressPercent(paid)))
}

func (s *Server) handleDeleteDebt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid debt id")
		return
	}

	if err := s.deps.Debts.Delete(r.Context(), userID(r), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
