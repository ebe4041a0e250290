package http

import (
	"net/http"

	"github.com/tongxing977-max/project50k-backend/internal/core"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tx, err := req.toTransaction(s.clock.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.deps.Transactions.Create(r.Context(), userID(r), tx)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, buildTransaction(created))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	var f storage.TransactionFilter

	from, ok, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	if ok {
		f.From = from
	}

	to, ok, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date")
		return
	}
	if ok {
		f.To = to
	}

	f.Category = r.URL.Query().Get("category")
	if kind := r.URL.Query().Get("type"); kind != "" {
		k := core.Kind(kind)
		if err := k.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid type")
			return
		}
		f.Kind = k
	}
	f.Limit = queryInt(r, "limit", 100)
	f.Offset = queryInt(r, "offset", 0)

	txs, err := s.deps.Transactions.List(r.Context(), userID(r), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildTransactions(txs))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.deps.Transactions.Delete(r.Context(), userID(r), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
