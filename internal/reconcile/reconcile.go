// Package reconcile keeps a trip's persisted pending transfers in sync with
// its expense ledger and handles creditor confirmation of transfers.
//
// Reconciliation is serialized per trip. Reads (Settlement, Balances) never
// take the lock and never write.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/metrics"
	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

var (
	// ErrTransferNotFound is returned when completing an unknown transfer.
	ErrTransferNotFound = errors.New("transfer not found")

	// ErrNotCreditor is returned when someone other than the receiving
	// member tries to complete a transfer.
	ErrNotCreditor = errors.New("only the receiver can mark a transfer as completed")

	// ErrTransferNotPending is returned when completing a transfer twice.
	ErrTransferNotPending = errors.New("transfer is not pending")
)

// Store is the subset of storage.Store the reconciler needs.
type Store interface {
	ListTripMembers(ctx context.Context, tripID string) ([]string, error)
	ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)
	ListTransfersByStatus(ctx context.Context, tripID string, status models.TransferStatus) ([]*models.Transfer, error)
	GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error)
	ReplaceTransfers(ctx context.Context, tripID string, resetCompleted bool, pending []*models.Transfer) (int, error)
	CompleteTransfer(ctx context.Context, transferID string, completedAt int64) error
}

// Notifier is told about trips whose reconciliation failed so that the
// work can be retried out of band.
type Notifier interface {
	NotifyDirty(ctx context.Context, tripID, actor, reason string) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyDirty(context.Context, string, string, string) error { return nil }

// Options controls a single reconciliation.
type Options struct {
	// ResetCompleted also deletes completed transfers (a hard reset).
	ResetCompleted bool
}

func (o Options) mode() string {
	if o.ResetCompleted {
		return "hard"
	}
	return "soft"
}

// Result reports what a reconciliation did.
type Result struct {
	// Created is the number of pending transfer records inserted.
	Created int
}

// Reconciler computes settlements and persists pending transfers.
type Reconciler struct {
	store    Store
	calc     *ledger.Calculator
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
	dirty map[string]struct{}
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithNotifier sets where failed reconciliations are reported.
func WithNotifier(n Notifier) Option {
	return func(r *Reconciler) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Reconciler) { r.metrics = m }
}

// WithClock overrides the clock used to stamp completions.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Reconciler. A nil calc uses ledger.DefaultConfig.
func New(store Store, calc *ledger.Calculator, opts ...Option) *Reconciler {
	if calc == nil {
		calc = ledger.NewCalculator(ledger.DefaultConfig())
	}
	r := &Reconciler{
		store:    store,
		calc:     calc,
		notifier: noopNotifier{},
		now:      time.Now,
		locks:    make(map[string]*semaphore.Weighted),
		dirty:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calculator returns the ledger calculator in use.
func (r *Reconciler) Calculator() *ledger.Calculator {
	return r.calc
}

// Settlement loads the trip's current members, expenses and completed
// transfers and computes balances, ideal transfers and summaries.
// Nothing is written.
func (r *Reconciler) Settlement(ctx context.Context, tripID string) (ledger.Settlement, error) {
	in, err := r.load(ctx, tripID, true)
	if err != nil {
		return ledger.Settlement{}, err
	}
	return r.calc.Settle(in), nil
}

// Balances returns the trip's balance sheet after completed transfers are
// applied.
func (r *Reconciler) Balances(ctx context.Context, tripID string) (*ledger.BalanceSheet, error) {
	s, err := r.Settlement(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return s.Balances, nil
}

// Reconcile replaces the trip's pending transfers with the freshly computed
// ideal set, stamped with actor as creator. Completed transfers are kept
// unless opts.ResetCompleted is set, in which case the ledger is rebuilt
// from expenses alone.
func (r *Reconciler) Reconcile(ctx context.Context, tripID, actor string, opts Options) (Result, error) {
	release, err := r.acquire(ctx, tripID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to lock trip %s: %w", tripID, err)
	}
	defer release()

	start := time.Now()
	created, err := r.replace(ctx, tripID, actor, opts)
	r.metrics.ObserveReconcile(opts.mode(), err, created, time.Since(start))
	if err != nil {
		return Result{}, err
	}

	r.clearDirty(tripID)
	slog.Debug("Trip reconciled", "trip_id", tripID, "mode", opts.mode(), "created", created)
	return Result{Created: created}, nil
}

// AfterMutation runs a soft reconciliation after a primary write. A failure
// is logged, the trip is marked dirty and the notifier is told; the error is
// returned only so the caller can surface it as a warning.
func (r *Reconciler) AfterMutation(ctx context.Context, tripID, actor, reason string) (Result, error) {
	res, err := r.Reconcile(ctx, tripID, actor, Options{})
	if err == nil {
		return res, nil
	}

	slog.Warn("Failed to reconcile trip", "trip_id", tripID, "reason", reason, "error", err)
	r.markDirty(tripID)
	if nerr := r.notifier.NotifyDirty(context.WithoutCancel(ctx), tripID, actor, reason); nerr != nil {
		slog.Error("Failed to publish dirty trip", "trip_id", tripID, "error", nerr)
	}
	return Result{}, err
}

// Complete marks a pending transfer as completed on behalf of actor, who
// must be its creditor, then reconciles the trip.
func (r *Reconciler) Complete(ctx context.Context, transferID, actor string) (*models.Transfer, error) {
	transfer, err := r.store.GetTransfer(ctx, transferID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("transfer %s: %w", transferID, ErrTransferNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !transfer.IsCreditor(actor) {
		return nil, ErrNotCreditor
	}
	if transfer.Status != models.TransferPending {
		return nil, fmt.Errorf("transfer %s: %w", transferID, ErrTransferNotPending)
	}

	completedAt := r.now().Unix()
	if err := r.complete(ctx, transfer.TripID, transferID, completedAt); err != nil {
		return nil, err
	}
	transfer.Status = models.TransferCompleted
	transfer.CompletedAt = completedAt
	r.metrics.IncCompleted()

	slog.Info("Transfer completed", "transfer_id", transferID, "trip_id", transfer.TripID, "by", actor)

	// Best effort: the completion stands even if this fails.
	r.AfterMutation(ctx, transfer.TripID, actor, "transfer completed")
	return transfer, nil
}

// complete runs the guarded update under the trip lock so that a concurrent
// reconciliation cannot replace the row between the check and the write.
func (r *Reconciler) complete(ctx context.Context, tripID, transferID string, completedAt int64) error {
	release, err := r.acquire(ctx, tripID)
	if err != nil {
		return fmt.Errorf("failed to lock trip %s: %w", tripID, err)
	}
	defer release()

	err = r.store.CompleteTransfer(ctx, transferID, completedAt)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("transfer %s: %w", transferID, ErrTransferNotFound)
	case errors.Is(err, storage.ErrNotPending):
		return fmt.Errorf("transfer %s: %w", transferID, ErrTransferNotPending)
	case err != nil:
		return fmt.Errorf("failed to complete transfer: %w", err)
	}
	return nil
}

// RetryDirty re-runs a soft reconciliation for every dirty trip and returns
// how many are still dirty afterwards.
func (r *Reconciler) RetryDirty(ctx context.Context) int {
	for _, tripID := range r.Dirty() {
		if ctx.Err() != nil {
			break
		}
		if _, err := r.Reconcile(ctx, tripID, "", Options{}); err != nil {
			slog.Warn("Retry of dirty trip failed", "trip_id", tripID, "error", err)
		}
	}
	return len(r.Dirty())
}

// Dirty returns the IDs of trips whose last reconciliation failed, sorted.
func (r *Reconciler) Dirty() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.dirty))
	for id := range r.dirty {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsDirty reports whether the trip's last reconciliation failed.
func (r *Reconciler) IsDirty(tripID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.dirty[tripID]
	return ok
}

func (r *Reconciler) replace(ctx context.Context, tripID, actor string, opts Options) (int, error) {
	in, err := r.load(ctx, tripID, !opts.ResetCompleted)
	if err != nil {
		return 0, err
	}
	ideal := r.calc.Settle(in).Transfers

	pending := make([]*models.Transfer, 0, len(ideal))
	for _, t := range ideal {
		createdBy := actor
		if createdBy == "" {
			createdBy = t.From
		}
		pending = append(pending, &models.Transfer{
			TripID:    tripID,
			From:      t.From,
			To:        t.To,
			Amount:    t.Amount,
			Status:    models.TransferPending,
			CreatedBy: createdBy,
		})
	}

	created, err := r.store.ReplaceTransfers(ctx, tripID, opts.ResetCompleted, pending)
	if err != nil {
		return 0, fmt.Errorf("failed to replace transfers: %w", err)
	}
	return created, nil
}

// load fetches everything the ledger needs for one trip concurrently.
func (r *Reconciler) load(ctx context.Context, tripID string, withCompleted bool) (ledger.Input, error) {
	var (
		members   []string
		expenses  []*models.Expense
		completed []*models.Transfer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = r.store.ListTripMembers(gctx, tripID)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = r.store.ListExpensesByTrip(gctx, tripID)
		return err
	})
	if withCompleted {
		g.Go(func() error {
			var err error
			completed, err = r.store.ListTransfersByStatus(gctx, tripID, models.TransferCompleted)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return ledger.Input{}, fmt.Errorf("failed to load trip %s: %w", tripID, err)
	}

	return ToInput(members, expenses, completed), nil
}

// ToInput converts stored records into the ledger's input shape.
func ToInput(members []string, expenses []*models.Expense, completed []*models.Transfer) ledger.Input {
	in := ledger.Input{
		Members:   members,
		Expenses:  make([]ledger.Expense, 0, len(expenses)),
		Completed: make([]ledger.CompletedTransfer, 0, len(completed)),
	}
	for _, e := range expenses {
		in.Expenses = append(in.Expenses, ledger.Expense{
			ID:           e.ID,
			Payer:        e.Payer,
			Amount:       e.Amount.InexactFloat64(),
			Participants: e.Participants,
			Category:     e.Category,
		})
	}
	for _, t := range completed {
		if t.Status != models.TransferCompleted {
			continue
		}
		in.Completed = append(in.Completed, ledger.CompletedTransfer{
			From:   t.From,
			To:     t.To,
			Amount: t.Amount.InexactFloat64(),
		})
	}
	return in
}

func (r *Reconciler) acquire(ctx context.Context, tripID string) (func(), error) {
	r.mu.Lock()
	sem, ok := r.locks[tripID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		r.locks[tripID] = sem
	}
	r.mu.Unlock()

	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}

func (r *Reconciler) markDirty(tripID string) {
	r.mu.Lock()
	r.dirty[tripID] = struct{}{}
	n := len(r.dirty)
	r.mu.Unlock()
	r.metrics.SetDirtyTrips(n)
}

func (r *Reconciler) clearDirty(tripID string) {
	r.mu.Lock()
	_, ok := r.dirty[tripID]
	delete(r.dirty, tripID)
	n := len(r.dirty)
	r.mu.Unlock()
	if ok {
		r.metrics.SetDirtyTrips(n)
	}
}
