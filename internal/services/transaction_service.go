package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tongxing977-max/project50k-backend/internal/core"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
)

// TransactionStore is the slice of the repository the ledger operations use.
type TransactionStore interface {
	InsertTransaction(ctx context.Context, userID int64, t core.Transaction) (int64, error)
	ListTransactions(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id int64) error
}

// SyncPublisher hands new and deleted ledger entries to the background
// worker (classification and spreadsheet mirroring).
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
	PublishTransactionDelete(ctx context.Context, id int64) error
}

// TransactionService records ledger entries locally and notifies the worker
// asynchronously. The publisher is optional; without it entries are only
// stored.
type TransactionService struct {
	store     TransactionStore
	publisher SyncPublisher
}

func NewTransactionService(store TransactionStore, publisher SyncPublisher) *TransactionService {
	return &TransactionService{store: store, publisher: publisher}
}

// Create validates and stores a ledger entry. An empty category is replaced
// with the uncategorized placeholder; the worker asks the external
// classifier to fill it in later.
func (s *TransactionService) Create(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error) {
	if t.Category == "" {
		t.Category = core.CategoryUncategorized
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	id, err := s.store.InsertTransaction(ctx, userID, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	t.ID = id

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionSync(ctx, id, 1); err != nil {
			// The entry is saved; sync is best-effort.
			slog.ErrorContext(ctx, "Failed to publish sync message", "transaction_id", id, "error", err)
		}
	}

	return t, nil
}

func (s *TransactionService) List(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Delete removes a ledger entry. Entries are deletable but never editable.
func (s *TransactionService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message", "transaction_id", id, "error", err)
		}
	}

	return nil
}
