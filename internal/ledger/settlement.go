package ledger

// UncategorizedLabel is the category reported for expenses without one.
const UncategorizedLabel = "Uncategorized"

// Input is everything the ledger needs to settle one trip.
type Input struct {
	Members   []string
	Expenses  []Expense
	Completed []CompletedTransfer
}

// Summary holds totals over the counted expenses.
type Summary struct {
	Total   float64
	Count   int
	Average float64
}

// Spending breaks counted expenses down by payer and by category.
type Spending struct {
	ByMember   map[string]float64
	ByCategory map[string]float64
}

// Settlement is the read model for one trip.
type Settlement struct {
	Balances  *BalanceSheet
	Transfers []Transfer
	Summary   Summary
	Spending  Spending

	// Counted is the number of expenses that passed the validity filter.
	Counted int

	// SkippedTransfers is the number of completed transfers that named a
	// non-member and were ignored.
	SkippedTransfers int
}

// Settle runs the full pipeline: filter, balances, completed-transfer
// adjustment, simplification and summary totals. With no members it returns
// an empty settlement, not an error.
func (c *Calculator) Settle(in Input) Settlement {
	members := NewMemberSet(in.Members)
	counted := c.Filter(in.Expenses, members)

	sheet := c.Balances(members, counted)
	skipped := c.ApplyCompleted(sheet, in.Completed)

	return Settlement{
		Balances:         sheet,
		Transfers:        c.Simplify(sheet),
		Summary:          summarize(counted),
		Spending:         spending(members, counted),
		Counted:          len(counted),
		SkippedTransfers: skipped,
	}
}

func summarize(expenses []Expense) Summary {
	var s Summary
	for _, e := range expenses {
		s.Total += e.Amount
	}
	s.Count = len(expenses)
	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}
	return s
}

func spending(members MemberSet, expenses []Expense) Spending {
	sp := Spending{
		ByMember:   make(map[string]float64, len(members)),
		ByCategory: make(map[string]float64),
	}
	for m := range members {
		sp.ByMember[m] = 0
	}
	for _, e := range expenses {
		sp.ByMember[e.Payer] += e.Amount
		category := e.Category
		if category == "" {
			category = UncategorizedLabel
		}
		sp.ByCategory[category] += e.Amount
	}
	return sp
}
