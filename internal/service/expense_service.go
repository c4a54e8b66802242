package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	store      storage.Store
	reconciler *reconcile.Reconciler
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(store storage.Store, reconciler *reconcile.Reconciler) *ExpenseService {
	return &ExpenseService{store: store, reconciler: reconciler}
}

// validateParticipants checks every participant is a current trip member.
func validateParticipants(trip *models.Trip, participants models.Participants) error {
	if len(participants) == 0 {
		return fmt.Errorf("at least one participant required")
	}
	var invalid []string
	for _, p := range participants {
		if !trip.HasMember(p) {
			invalid = append(invalid, p)
		}
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid participants: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// AddExpense records an expense paid by the caller and re-syncs the ledger.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"trip_id", req.Msg.TripID,
		"amount", req.Msg.Amount.String(),
		"participants_count", len(req.Msg.Participants),
	)

	trip, caller, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	amount := req.Msg.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount must be positive"))
	}
	participants := models.NewParticipants(req.Msg.Participants...)
	if err := validateParticipants(trip, participants); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	expense := &models.Expense{
		TripID:       trip.ID,
		Payer:        caller,
		Amount:       amount,
		Participants: participants,
		Description:  strings.TrimSpace(req.Msg.Description),
		Category:     strings.TrimSpace(req.Msg.Category),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Expense added", "expense_id", expense.ID, "trip_id", trip.ID)

	return connect.NewResponse(&api.AddExpenseResponse{
		Expense:    toAPIExpense(expense),
		LedgerSync: syncAfter(ctx, s.reconciler, trip.ID, caller, "expense added"),
	}), nil
}

// ListExpenses returns a trip's expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "trip_id", req.Msg.TripID)

	trip, _, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		slog.Error("ListExpenses failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toAPIExpense(e))
	}

	slog.Info("ListExpenses successful", "trip_id", trip.ID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense. Only its payer may delete it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ExpenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if _, _, err := requireMember(ctx, s.store, expense.TripID); err != nil {
		return nil, err
	}
	if expense.Payer != caller {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("only the payer can delete this expense"))
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Expense deleted", "expense_id", expense.ID, "trip_id", expense.TripID)

	return connect.NewResponse(&api.DeleteExpenseResponse{
		LedgerSync: syncAfter(ctx, s.reconciler, expense.TripID, caller, "expense deleted"),
	}), nil
}
