package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Expense represents money one member paid on behalf of a set of participants.
// The amount is always split equally among the participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense was recorded against.
	TripID string

	// Payer is the username of the member who paid.
	Payer string

	// Amount is the positive amount paid.
	Amount decimal.Decimal

	// Participants is the set of usernames sharing the expense.
	Participants Participants

	// Description is a free-form note (e.g., "Dinner at Ramiro").
	Description string

	// Category is optional; empty means uncategorized.
	Category string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Participants is a normalized participant set: trimmed, non-empty,
// de-duplicated usernames in first-seen order.
//
// Older rows stored participants as a delimited string instead of a JSON
// array; Scan accepts both shapes so that nothing past the storage edge ever
// has to.
type Participants []string

// NewParticipants normalizes names into a Participants set.
func NewParticipants(names ...string) Participants {
	seen := make(map[string]bool, len(names))
	out := make(Participants, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// ParseParticipants decodes either a JSON array of strings or a delimited
// string ("alice,bob" or "alice; bob").
func ParseParticipants(raw string) (Participants, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Participants{}, nil
	}
	if strings.HasPrefix(raw, "[") {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return nil, fmt.Errorf("invalid participants array: %w", err)
		}
		return NewParticipants(names...), nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	return NewParticipants(fields...), nil
}

// Contains reports whether username is in the set.
func (p Participants) Contains(username string) bool {
	for _, n := range p {
		if n == username {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer; participants are stored as a JSON array.
func (p Participants) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *Participants) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*p = Participants{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported participants type %T", src)
	}
	parsed, err := ParseParticipants(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
