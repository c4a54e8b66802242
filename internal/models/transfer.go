package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a Transfer.
type TransferStatus string

const (
	// TransferPending is a system-computed instruction that has not been confirmed.
	// Pending transfers are regenerated whenever the ledger changes.
	TransferPending TransferStatus = "pending"

	// TransferCompleted is a payment the creditor attested as received.
	// Completed transfers survive reconciliation unless a hard reset is requested.
	TransferCompleted TransferStatus = "completed"
)

// Transfer represents a payment from a debtor to a creditor within a trip.
type Transfer struct {
	// ID is the unique identifier for the transfer (UUID format).
	ID string

	// TripID is the trip this transfer belongs to.
	TripID string

	// From is the debtor who should pay (or paid).
	From string

	// To is the creditor who should receive (or received) the payment.
	To string

	// Amount is the transfer amount, two fraction digits.
	Amount decimal.Decimal

	// Status is pending or completed.
	Status TransferStatus

	// CreatedBy is the username whose action produced this record.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the record was inserted.
	CreatedAt int64

	// CompletedAt is the Unix timestamp of completion; zero while pending.
	CompletedAt int64
}

// IsCreditor reports whether username is the transfer's creditor.
// Usernames are compared case-insensitively after trimming.
func (t *Transfer) IsCreditor(username string) bool {
	return strings.EqualFold(strings.TrimSpace(t.To), strings.TrimSpace(username))
}
