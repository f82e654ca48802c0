package services

import (
	"context"
	"fmt"
	"log/slog"

	"milkyfeast/internal/core"
	"milkyfeast/internal/storage"
)

// EventPublisher announces recorded transactions to downstream consumers.
type EventPublisher interface {
	PublishTransactionRecorded(ctx context.Context, id int64) error
}

// TransactionService records ledger entries and fans out the recorded
// event. The database write is authoritative; a failed publish is logged
// and left to the export worker's catch-up pass.
type TransactionService struct {
	storage   *storage.SQLiteRepository
	publisher EventPublisher
}

func NewTransactionService(storage *storage.SQLiteRepository, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		storage:   storage,
		publisher: publisher,
	}
}

// Record validates and appends a transaction, then publishes the event.
func (s *TransactionService) Record(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.CreateTransaction(ctx, tx)
	if err != nil {
		return 0, fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, relying on catch-up export", "id", id)
		return id, nil
	}

	if err := s.publisher.PublishTransactionRecorded(ctx, id); err != nil {
		// The record is saved; the worker's periodic pass picks it up.
		slog.ErrorContext(ctx, "Failed to publish transaction recorded event",
			"id", id, "error", err)
	}

	return id, nil
}
