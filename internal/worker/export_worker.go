package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"milkyfeast/internal/amqp"
	"milkyfeast/internal/core"
	"milkyfeast/internal/storage"
)

// TransactionExporter mirrors one transaction to an external sink.
type TransactionExporter interface {
	AppendTransaction(ctx context.Context, tx core.Transaction) error
}

// ExportWorker mirrors recorded transactions to the bookkeeping sink.
// Events arrive over AMQP; a periodic catch-up pass sweeps anything a
// lost message left behind.
type ExportWorker struct {
	storage   *storage.SQLiteRepository
	exporter  TransactionExporter
	batchSize int
}

func NewExportWorker(storage *storage.SQLiteRepository, exporter TransactionExporter, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleRecordedMessage exports the transaction named by an AMQP event.
func (w *ExportWorker) HandleRecordedMessage(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing recorded transaction event", "id", msg.ID)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Stale event; nothing left to export.
			slog.WarnContext(ctx, "Transaction from event no longer exists", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get transaction: %w", err)
	}

	return w.export(ctx, tx)
}

// ProcessPending sweeps unexported transactions, oldest first. It is the
// backup path for lost AMQP messages.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListUnexported(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unexported: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing unexported transactions", "count", len(pending))

	for _, tx := range pending {
		if err := w.export(ctx, tx); err != nil {
			// Leave the rest for the next pass; the sink is likely down.
			return fmt.Errorf("export transaction %d: %w", tx.ID, err)
		}
	}
	return nil
}

// RunCatchUp runs ProcessPending on a ticker until ctx is cancelled.
func (w *ExportWorker) RunCatchUp(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Catch-up export failed", "error", err)
			}
		}
	}
}

func (w *ExportWorker) export(ctx context.Context, tx core.Transaction) error {
	if err := w.exporter.AppendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}

	if err := w.storage.MarkExported(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported",
		"id", tx.ID,
		"type", string(tx.Type),
		"amount", tx.Amount.String())
	return nil
}
