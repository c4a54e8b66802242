// Package worker processes retry messages for trips whose pending transfers
// could not be brought up to date inline.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/tripledger/internal/amqp"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage"
)

// LedgerWorker re-runs reconciliation for trips reported dirty.
type LedgerWorker struct {
	store      storage.Store
	reconciler *reconcile.Reconciler
}

func NewLedgerWorker(store storage.Store, reconciler *reconcile.Reconciler) *LedgerWorker {
	return &LedgerWorker{store: store, reconciler: reconciler}
}

// HandleLedgerDirty reconciles the trip named by msg. Returning an error
// leaves the message on the queue for another attempt.
func (w *LedgerWorker) HandleLedgerDirty(ctx context.Context, msg *amqp.LedgerDirtyMessage) error {
	slog.InfoContext(ctx, "Processing ledger dirty message",
		"trip_id", msg.TripID,
		"actor", msg.Actor,
		"reason", msg.Reason,
	)

	if _, err := w.store.GetTrip(ctx, msg.TripID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "Dropping message for unknown trip", "trip_id", msg.TripID)
			return nil
		}
		return fmt.Errorf("get trip from storage: %w", err)
	}

	res, err := w.reconciler.Reconcile(ctx, msg.TripID, msg.Actor, reconcile.Options{})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to reconcile trip",
			"trip_id", msg.TripID,
			"error", err,
			"timestamp", msg.Timestamp)
		return fmt.Errorf("reconcile trip: %w", err)
	}

	slog.InfoContext(ctx, "Successfully reconciled trip",
		"trip_id", msg.TripID,
		"created", res.Created)
	return nil
}
