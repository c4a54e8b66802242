// Package ledger turns a trip's expenses into balances and a minimal set of
// "who pays whom" transfers.
//
// Everything here is pure: no storage, no logging, no clocks. The pipeline is
//
//	Filter -> Balances -> ApplyCompleted -> Simplify
//
// and Settle runs it end to end. Rounding happens only when transfers are
// emitted; balances carry full float64 precision.
package ledger

import "github.com/shopspring/decimal"

const (
	// DefaultTolerance is the currency-rounding tolerance below which a
	// balance or remainder is treated as settled.
	DefaultTolerance = 0.01

	// DefaultPlaces is the number of fraction digits emitted transfers are
	// rounded to.
	DefaultPlaces int32 = 2
)

// Config holds the numeric knobs of the settlement algorithm.
type Config struct {
	// Tolerance is the epsilon used to classify creditors/debtors and to
	// decide when a party is fully settled.
	Tolerance float64

	// Places is the rounding precision of emitted transfer amounts.
	Places int32
}

// DefaultConfig returns the tolerance and rounding used in production.
func DefaultConfig() Config {
	return Config{Tolerance: DefaultTolerance, Places: DefaultPlaces}
}

// Calculator runs the ledger pipeline with a fixed Config.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a Calculator. Non-positive Tolerance and negative
// Places fall back to the defaults.
func NewCalculator(cfg Config) *Calculator {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.Places < 0 {
		cfg.Places = DefaultPlaces
	}
	return &Calculator{cfg: cfg}
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// Round rounds v to the configured number of places.
func (c *Calculator) Round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(c.cfg.Places)
}

// Expense is the normalized expense shape the ledger works on.
type Expense struct {
	ID           string
	Payer        string
	Amount       float64
	Participants []string
	Category     string
}

// CompletedTransfer is a payment already made in the real world.
type CompletedTransfer struct {
	From   string // debtor who paid
	To     string // creditor who received
	Amount float64
}

// Transfer is one emitted settlement instruction.
type Transfer struct {
	From   string // debtor
	To     string // creditor
	Amount decimal.Decimal
}
