// Package api defines the request and response messages of the tripledger
// RPC services. Messages travel as JSON over Connect; see package apiconnect
// for handlers and clients.
package api

import "github.com/shopspring/decimal"

// LedgerSync reports whether the trip's pending transfers were brought up to
// date after a write. A failed sync never fails the write itself.
type LedgerSync struct {
	LedgerSynced  bool   `json:"ledger_synced"`
	LedgerWarning string `json:"ledger_warning,omitempty"`
}

// Trip is a group of members sharing expenses.
type Trip struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedBy string   `json:"created_by"`
	CreatedAt int64    `json:"created_at"`
}

type CreateTripRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members,omitempty"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type AddMembersRequest struct {
	TripID    string   `json:"trip_id"`
	Usernames []string `json:"usernames"`
}

type AddMembersResponse struct {
	Trip *Trip `json:"trip"`
}

type RemoveMemberRequest struct {
	TripID   string `json:"trip_id"`
	Username string `json:"username"`
}

type RemoveMemberResponse struct {
	Trip *Trip `json:"trip"`
}

// Expense is money one member paid, split equally among participants.
type Expense struct {
	ID           string   `json:"id"`
	TripID       string   `json:"trip_id"`
	Payer        string   `json:"payer"`
	Amount       float64  `json:"amount"`
	Participants []string `json:"participants"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"`
	CreatedAt    int64    `json:"created_at"`
}

// AddExpenseRequest records an expense paid by the caller.
// Amount accepts a JSON number or a decimal string.
type AddExpenseRequest struct {
	TripID       string          `json:"trip_id"`
	Amount       decimal.Decimal `json:"amount"`
	Participants []string        `json:"participants"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
	LedgerSync
}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct {
	LedgerSync
}

// Balance is one member's position in a trip.
type Balance struct {
	Username string  `json:"username"`
	Paid     float64 `json:"paid"`
	Owes     float64 `json:"owes"`
	Net      float64 `json:"net"`
}

// Settlement is one suggested payment from a debtor to a creditor.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Transfer is a persisted payment record.
type Transfer struct {
	ID          string  `json:"id"`
	TripID      string  `json:"trip_id"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   int64   `json:"created_at"`
	CompletedAt int64   `json:"completed_at,omitempty"`
}

// Summary totals the expenses that count towards balances.
type Summary struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// SpendingEntry is an amount attributed to a member or a category.
type SpendingEntry struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

type GetBalancesRequest struct {
	TripID string `json:"trip_id"`
}

type GetBalancesResponse struct {
	TripID   string     `json:"trip_id"`
	Balances []*Balance `json:"balances"`
}

type GetSettlementRequest struct {
	TripID string `json:"trip_id"`
}

type GetSettlementResponse struct {
	TripID      string        `json:"trip_id"`
	Balances    []*Balance    `json:"balances"`
	Settlements []*Settlement `json:"settlements"`
	Summary     *Summary      `json:"summary"`
}

type GetSpendingRequest struct {
	TripID string `json:"trip_id"`
}

type GetSpendingResponse struct {
	TripID     string           `json:"trip_id"`
	ByMember   []*SpendingEntry `json:"by_member"`
	ByCategory []*SpendingEntry `json:"by_category"`
	Summary    *Summary         `json:"summary"`
}

// ListTransfersRequest lists a trip's transfers. Status optionally filters
// to "pending" or "completed".
type ListTransfersRequest struct {
	TripID string `json:"trip_id"`
	Status string `json:"status,omitempty"`
}

type ListTransfersResponse struct {
	Transfers []*Transfer `json:"transfers"`
	LedgerSync
}

type CompleteTransferRequest struct {
	TransferID string `json:"transfer_id"`
}

type CompleteTransferResponse struct {
	Transfer *Transfer `json:"transfer"`
	LedgerSync
}

// Reset modes.
const (
	ResetSoft = "soft"
	ResetHard = "hard"
)

// ResetTransfersRequest rebuilds a trip's pending transfers. Mode "hard"
// also clears completed transfers; the default is "soft".
type ResetTransfersRequest struct {
	TripID string `json:"trip_id"`
	Mode   string `json:"mode,omitempty"`
}

type ResetTransfersResponse struct {
	Mode    string `json:"mode"`
	Created int    `json:"created"`
	Message string `json:"message"`
}
