// Package service implements the tripledger Connect services on top of the
// storage layer and the reconciler.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
)

var errNotMember = errors.New("you are not a member of this trip")

// callerFromContext returns the authenticated username.
func callerFromContext(ctx context.Context) (string, error) {
	username := middleware.GetUsername(ctx)
	if username == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return username, nil
}

// requireMember loads the trip and checks the caller belongs to it.
func requireMember(ctx context.Context, store storage.Store, tripID string) (*models.Trip, string, error) {
	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, "", err
	}
	if tripID == "" {
		return nil, "", connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("trip_id required"))
	}

	trip, err := store.GetTrip(ctx, tripID)
	if err != nil {
		return nil, "", toConnectError(err)
	}
	if !trip.HasMember(caller) {
		return nil, "", connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return trip, caller, nil
}

// toConnectError maps storage and reconciler errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, reconcile.ErrTransferNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, reconcile.ErrNotCreditor):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, reconcile.ErrTransferNotPending), errors.Is(err, storage.ErrNotPending):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// syncAfter runs a best-effort reconciliation after a write and reports
// the outcome for the response.
func syncAfter(ctx context.Context, rec *reconcile.Reconciler, tripID, actor, reason string) api.LedgerSync {
	if _, err := rec.AfterMutation(ctx, tripID, actor, reason); err != nil {
		return api.LedgerSync{
			LedgerSynced:  false,
			LedgerWarning: "settlement transfers could not be updated and will be retried",
		}
	}
	return api.LedgerSync{LedgerSynced: true}
}

func toAPITrip(trip *models.Trip) *api.Trip {
	members := trip.Members
	if members == nil {
		members = []string{}
	}
	return &api.Trip{
		ID:        trip.ID,
		Name:      trip.Name,
		Members:   members,
		CreatedBy: trip.CreatedBy,
		CreatedAt: trip.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	participants := []string(e.Participants)
	if participants == nil {
		participants = []string{}
	}
	return &api.Expense{
		ID:           e.ID,
		TripID:       e.TripID,
		Payer:        e.Payer,
		Amount:       e.Amount.Round(2).InexactFloat64(),
		Participants: participants,
		Description:  e.Description,
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
	}
}

func toAPITransfer(t *models.Transfer) *api.Transfer {
	return &api.Transfer{
		ID:          t.ID,
		TripID:      t.TripID,
		From:        t.From,
		To:          t.To,
		Amount:      t.Amount.Round(2).InexactFloat64(),
		Status:      string(t.Status),
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// money rounds a ledger value for display.
func money(calc *ledger.Calculator, v float64) float64 {
	return calc.Round(v).InexactFloat64()
}

func toAPIBalances(calc *ledger.Calculator, sheet *ledger.BalanceSheet) []*api.Balance {
	rows := sheet.Rows()
	out := make([]*api.Balance, 0, len(rows))
	for _, b := range rows {
		out = append(out, &api.Balance{
			Username: b.Member,
			Paid:     money(calc, b.Paid),
			Owes:     money(calc, b.Owes),
			Net:      money(calc, b.Net),
		})
	}
	return out
}

func toAPISummary(calc *ledger.Calculator, s ledger.Summary) *api.Summary {
	return &api.Summary{
		Total:   money(calc, s.Total),
		Count:   s.Count,
		Average: money(calc, s.Average),
	}
}

func logSkipped(tripID string, s ledger.Settlement) {
	if s.SkippedTransfers > 0 {
		slog.Warn("Ignored completed transfers naming non-members",
			"trip_id", tripID,
			"skipped", s.SkippedTransfers,
		)
	}
}
