// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

var (
	// ErrNotFound is returned (wrapped) when a trip, member, expense or
	// transfer does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotPending is returned when completing a transfer that is no longer
	// pending.
	ErrNotPending = errors.New("transfer is not pending")
)

// Store defines the interface for trip ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateTrip persists a new trip with its initial members.
	// The trip.ID and trip.CreatedAt fields will be populated by the store.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip and its current members.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// AddTripMembers adds usernames to a trip; existing members are ignored.
	AddTripMembers(ctx context.Context, tripID string, usernames []string) error

	// RemoveTripMember removes one username from a trip.
	RemoveTripMember(ctx context.Context, tripID, username string) error

	// ListTripMembers returns the usernames currently on a trip.
	ListTripMembers(ctx context.Context, tripID string) ([]string, error)

	// CreateExpense persists a new expense.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByTrip returns every expense recorded against a trip, newest first.
	ListExpensesByTrip(ctx context.Context, tripID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// GetTransfer retrieves a transfer by ID.
	GetTransfer(ctx context.Context, transferID string) (*models.Transfer, error)

	// ListTransfersByTrip returns all transfers for a trip, newest first.
	ListTransfersByTrip(ctx context.Context, tripID string) ([]*models.Transfer, error)

	// ListTransfersByStatus returns a trip's transfers with the given status.
	ListTransfersByStatus(ctx context.Context, tripID string, status models.TransferStatus) ([]*models.Transfer, error)

	// ReplaceTransfers deletes the trip's pending transfers (and completed
	// ones too when resetCompleted is set) and inserts pending as new
	// records, atomically. It returns the number of records inserted.
	ReplaceTransfers(ctx context.Context, tripID string, resetCompleted bool, pending []*models.Transfer) (int, error)

	// CompleteTransfer marks a pending transfer completed at completedAt.
	// Returns ErrNotPending if the transfer exists but is not pending.
	CompleteTransfer(ctx context.Context, transferID string, completedAt int64) error

	// Close releases any resources held by the store.
	Close() error
}
