// Package worker processes queued ledger entries in the background:
// classification of uncategorized entries and spreadsheet mirroring.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp091 "github.com/rabbitmq/amqp091-go"

	"github.com/tongxing977-max/project50k-backend/internal/amqp"
	"github.com/tongxing977-max/project50k-backend/internal/classifier"
	"github.com/tongxing977-max/project50k-backend/internal/core"
	"github.com/tongxing977-max/project50k-backend/internal/sheets"
)

// TransactionStore is the slice of the repository the worker needs.
type TransactionStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, int64, error)
	UpdateTransactionCategory(ctx context.Context, id int64, category string) error
}

// SyncWorker consumes sync and delete messages. Both the classifier and the
// mirror are optional capabilities; a nil classifier leaves entries
// uncategorized and a nil mirror skips the spreadsheet copy.
type SyncWorker struct {
	store      TransactionStore
	classifier classifier.Classifier
	mirror     sheets.LedgerWriter
}

func NewSyncWorker(store TransactionStore, cls classifier.Classifier, mirror sheets.LedgerWriter) *SyncWorker {
	return &SyncWorker{store: store, classifier: cls, mirror: mirror}
}

// Run consumes deliveries until the context ends or the channel closes.
// Failed messages are requeued once via nack.
func (w *SyncWorker) Run(ctx context.Context, deliveries <-chan amqp091.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			if err := w.dispatch(ctx, d); err != nil {
				slog.ErrorContext(ctx, "Message processing failed",
					"routing_key", d.RoutingKey, "redelivered", d.Redelivered, "error", err)
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (w *SyncWorker) dispatch(ctx context.Context, d amqp091.Delivery) error {
	switch d.RoutingKey {
	case amqp.RoutingKeySync:
		msg, err := amqp.TransactionSyncMessageFromJSON(d.Body)
		if err != nil {
			return fmt.Errorf("decode sync message: %w", err)
		}
		return w.HandleSyncMessage(ctx, msg)
	case amqp.RoutingKeyDelete:
		msg, err := amqp.TransactionDeleteMessageFromJSON(d.Body)
		if err != nil {
			return fmt.Errorf("decode delete message: %w", err)
		}
		return w.HandleDeleteMessage(ctx, msg)
	default:
		slog.WarnContext(ctx, "Unknown routing key, dropping message", "routing_key", d.RoutingKey)
		return nil
	}
}

// HandleSyncMessage fetches the entry, classifies it when the category is
// still the placeholder, and appends it to the mirror.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "transaction_id", msg.ID, "version", msg.Version)

	t, _, err := w.store.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if t.Category == core.CategoryUncategorized && w.classifier != nil {
		result, err := w.classifier.Classify(ctx, t.Name, t.Amount, t.Kind)
		if err != nil {
			// The entry stays uncategorized; the redelivery will retry.
			return fmt.Errorf("classify transaction: %w", err)
		}
		if err := w.store.UpdateTransactionCategory(ctx, t.ID, result.Category); err != nil {
			return fmt.Errorf("persist category: %w", err)
		}
		t.Category = result.Category
		slog.InfoContext(ctx, "Transaction classified",
			"transaction_id", t.ID, "category", result.Category, "is_latte", result.IsLatte)
	}

	if w.mirror == nil {
		return nil
	}
	ref, err := w.mirror.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}
	slog.InfoContext(ctx, "Transaction mirrored", "transaction_id", t.ID, "row_ref", ref)
	return nil
}

// HandleDeleteMessage removes the mirrored copy if the mirror supports it.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "transaction_id", msg.ID)

	deleter, ok := w.mirror.(sheets.LedgerDeleter)
	if !ok {
		slog.WarnContext(ctx, "Mirror does not support deletion, skipping", "transaction_id", msg.ID)
		return nil
	}
	if err := deleter.Delete(ctx, msg.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete mirrored transaction: %w", err)
	}
	return nil
}
