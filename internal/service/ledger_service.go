package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/reconcile"
	"github.com/mmynk/tripledger/internal/storage"
	"github.com/mmynk/tripledger/pkg/api"
	"github.com/mmynk/tripledger/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	store      storage.Store
	reconciler *reconcile.Reconciler
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store, reconciler *reconcile.Reconciler) *LedgerService {
	return &LedgerService{store: store, reconciler: reconciler}
}

func (s *LedgerService) settle(ctx context.Context, tripID string) (ledger.Settlement, error) {
	settlement, err := s.reconciler.Settlement(ctx, tripID)
	if err != nil {
		slog.Error("Failed to compute settlement", "trip_id", tripID, "error", err)
		return ledger.Settlement{}, toConnectError(err)
	}
	logSkipped(tripID, settlement)
	return settlement, nil
}

// GetBalances returns each member's paid, owed and net amounts after
// completed transfers.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	slog.Info("GetBalances request received", "trip_id", req.Msg.TripID)

	trip, _, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	settlement, err := s.settle(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	calc := s.reconciler.Calculator()
	slog.Info("GetBalances successful", "trip_id", trip.ID, "members", settlement.Balances.Len())

	return connect.NewResponse(&api.GetBalancesResponse{
		TripID:   trip.ID,
		Balances: toAPIBalances(calc, settlement.Balances),
	}), nil
}

// GetSettlement returns balances, the suggested transfers that would settle
// them and expense totals. Nothing is persisted.
func (s *LedgerService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	slog.Info("GetSettlement request received", "trip_id", req.Msg.TripID)

	trip, _, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	settlement, err := s.settle(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	calc := s.reconciler.Calculator()
	settlements := make([]*api.Settlement, 0, len(settlement.Transfers))
	for _, t := range settlement.Transfers {
		settlements = append(settlements, &api.Settlement{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.InexactFloat64(),
		})
	}

	slog.Info("GetSettlement successful",
		"trip_id", trip.ID,
		"transfers", len(settlements),
		"counted_expenses", settlement.Counted,
	)

	return connect.NewResponse(&api.GetSettlementResponse{
		TripID:      trip.ID,
		Balances:    toAPIBalances(calc, settlement.Balances),
		Settlements: settlements,
		Summary:     toAPISummary(calc, settlement.Summary),
	}), nil
}

// GetSpending breaks counted expenses down by payer and by category.
func (s *LedgerService) GetSpending(ctx context.Context, req *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error) {
	slog.Info("GetSpending request received", "trip_id", req.Msg.TripID)

	trip, _, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}
	settlement, err := s.settle(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	calc := s.reconciler.Calculator()
	return connect.NewResponse(&api.GetSpendingResponse{
		TripID:     trip.ID,
		ByMember:   spendingEntries(calc, settlement.Spending.ByMember),
		ByCategory: spendingEntries(calc, settlement.Spending.ByCategory),
		Summary:    toAPISummary(calc, settlement.Summary),
	}), nil
}

// spendingEntries orders entries by amount, largest first, then by label.
func spendingEntries(calc *ledger.Calculator, amounts map[string]float64) []*api.SpendingEntry {
	entries := make([]*api.SpendingEntry, 0, len(amounts))
	for label, amount := range amounts {
		entries = append(entries, &api.SpendingEntry{Label: label, Amount: money(calc, amount)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount > entries[j].Amount
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// ListTransfers brings the trip's pending transfers up to date and lists
// all of its transfers, newest first. A failed sync still returns the
// stored transfers.
func (s *LedgerService) ListTransfers(ctx context.Context, req *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error) {
	slog.Info("ListTransfers request received", "trip_id", req.Msg.TripID, "status", req.Msg.Status)

	trip, caller, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	var status models.TransferStatus
	switch strings.ToLower(strings.TrimSpace(req.Msg.Status)) {
	case "":
	case string(models.TransferPending):
		status = models.TransferPending
	case string(models.TransferCompleted):
		status = models.TransferCompleted
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid status %q: must be pending or completed", req.Msg.Status))
	}

	sync := syncAfter(ctx, s.reconciler, trip.ID, caller, "transfers listed")

	var transfers []*models.Transfer
	if status == "" {
		transfers, err = s.store.ListTransfersByTrip(ctx, trip.ID)
	} else {
		transfers, err = s.store.ListTransfersByStatus(ctx, trip.ID, status)
	}
	if err != nil {
		slog.Error("ListTransfers failed", "trip_id", trip.ID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Transfer, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toAPITransfer(t))
	}

	slog.Info("ListTransfers successful", "trip_id", trip.ID, "count", len(out), "synced", sync.LedgerSynced)

	return connect.NewResponse(&api.ListTransfersResponse{
		Transfers:  out,
		LedgerSync: sync,
	}), nil
}

// CompleteTransfer marks a pending transfer as received. Only the creditor
// may do this.
func (s *LedgerService) CompleteTransfer(ctx context.Context, req *connect.Request[api.CompleteTransferRequest]) (*connect.Response[api.CompleteTransferResponse], error) {
	slog.Info("CompleteTransfer request received", "transfer_id", req.Msg.TransferID)

	caller, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.TransferID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("transfer_id required"))
	}

	transfer, err := s.reconciler.Complete(ctx, req.Msg.TransferID, caller)
	if err != nil {
		slog.Warn("CompleteTransfer failed", "transfer_id", req.Msg.TransferID, "error", err)
		return nil, toConnectError(err)
	}

	sync := api.LedgerSync{LedgerSynced: true}
	if s.reconciler.IsDirty(transfer.TripID) {
		sync = api.LedgerSync{
			LedgerWarning: "settlement transfers could not be updated and will be retried",
		}
	}

	return connect.NewResponse(&api.CompleteTransferResponse{
		Transfer:   toAPITransfer(transfer),
		LedgerSync: sync,
	}), nil
}

// ResetTransfers rebuilds the trip's pending transfers. A hard reset also
// deletes completed transfers and recomputes from expenses alone.
func (s *LedgerService) ResetTransfers(ctx context.Context, req *connect.Request[api.ResetTransfersRequest]) (*connect.Response[api.ResetTransfersResponse], error) {
	slog.Info("ResetTransfers request received", "trip_id", req.Msg.TripID, "mode", req.Msg.Mode)

	trip, caller, err := requireMember(ctx, s.store, req.Msg.TripID)
	if err != nil {
		return nil, err
	}

	mode := strings.ToLower(strings.TrimSpace(req.Msg.Mode))
	if mode == "" {
		mode = api.ResetSoft
	}
	if mode != api.ResetSoft && mode != api.ResetHard {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid mode %q: must be soft or hard", req.Msg.Mode))
	}

	res, err := s.reconciler.Reconcile(ctx, trip.ID, caller, reconcile.Options{ResetCompleted: mode == api.ResetHard})
	if err != nil {
		slog.Error("ResetTransfers failed", "trip_id", trip.ID, "mode", mode, "error", err)
		return nil, toConnectError(err)
	}

	message := "Soft reset: pending transfers rebuilt and completed transfers preserved"
	if mode == api.ResetHard {
		message = "Hard reset: pending transfers rebuilt and completed transfers cleared"
	}
	slog.Info("Transfers reset", "trip_id", trip.ID, "mode", mode, "created", res.Created)

	return connect.NewResponse(&api.ResetTransfersResponse{
		Mode:    mode,
		Created: res.Created,
		Message: message,
	}), nil
}
