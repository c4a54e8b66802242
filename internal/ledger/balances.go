package ledger

// Balance represents the balance information for one trip member.
type Balance struct {
	Member string
	Paid   float64 // Sum of counted expenses this member paid
	Owes   float64 // Sum of this member's equal shares
	Net    float64 // Positive = owed money, Negative = owes money
}

// BalanceSheet maps members to balances. The key set is fixed when the sheet
// is created; updates for members outside it are dropped rather than
// creating new rows.
type BalanceSheet struct {
	rows  []Balance
	index map[string]int
}

// NewBalanceSheet creates a zeroed sheet for the given members, ordered by
// username.
func NewBalanceSheet(members MemberSet) *BalanceSheet {
	sorted := members.Sorted()
	sheet := &BalanceSheet{
		rows:  make([]Balance, len(sorted)),
		index: make(map[string]int, len(sorted)),
	}
	for i, m := range sorted {
		sheet.rows[i] = Balance{Member: m}
		sheet.index[m] = i
	}
	return sheet
}

// Len returns the number of members on the sheet.
func (b *BalanceSheet) Len() int {
	return len(b.rows)
}

// Get returns the balance for member.
func (b *BalanceSheet) Get(member string) (Balance, bool) {
	i, ok := b.index[member]
	if !ok {
		return Balance{}, false
	}
	return b.rows[i], true
}

// Rows returns a copy of all balances, ordered by username.
func (b *BalanceSheet) Rows() []Balance {
	out := make([]Balance, len(b.rows))
	copy(out, b.rows)
	return out
}

// TotalNet returns the sum of all net balances. It is zero (within
// tolerance) for any consistent ledger.
func (b *BalanceSheet) TotalNet() float64 {
	var total float64
	for _, r := range b.rows {
		total += r.Net
	}
	return total
}

func (b *BalanceSheet) row(member string) *Balance {
	i, ok := b.index[member]
	if !ok {
		return nil
	}
	return &b.rows[i]
}

// Balances folds filtered expenses into a balance sheet keyed by members.
//
// Algorithm:
// - For each expense with k participants: payer paid += amount,
//   each participant owes += amount / k
// - Expenses with no participants contribute nothing
// - net = paid - owes
//
// No rounding is applied.
func (c *Calculator) Balances(members MemberSet, expenses []Expense) *BalanceSheet {
	sheet := NewBalanceSheet(members)

	for _, e := range expenses {
		if len(e.Participants) == 0 {
			continue
		}

		share := e.Amount / float64(len(e.Participants))
		if payer := sheet.row(e.Payer); payer != nil {
			payer.Paid += e.Amount
		}
		for _, p := range e.Participants {
			if row := sheet.row(p); row != nil {
				row.Owes += share
			}
		}
	}

	for i := range sheet.rows {
		sheet.rows[i].Net = sheet.rows[i].Paid - sheet.rows[i].Owes
	}
	return sheet
}

// ApplyCompleted shifts net balances by payments already made: the debtor's
// net rises and the creditor's falls by the same amount. Transfers naming a
// member that is not on the sheet are skipped; the number skipped is
// returned.
func (c *Calculator) ApplyCompleted(sheet *BalanceSheet, completed []CompletedTransfer) int {
	skipped := 0
	for _, t := range completed {
		from, to := sheet.row(t.From), sheet.row(t.To)
		if from == nil || to == nil {
			skipped++
			continue
		}
		from.Net += t.Amount
		to.Net -= t.Amount
	}
	return skipped
}
