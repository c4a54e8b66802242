package ledger

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

var trio = []string{"Alice", "Bob", "Carol"}

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultConfig())
}

func assertBalance(t *testing.T, sheet *BalanceSheet, member string, paid, owes, net float64) {
	t.Helper()
	b, ok := sheet.Get(member)
	if !ok {
		t.Fatalf("missing balance for %s", member)
	}
	if math.Abs(b.Paid-paid) > 0.01 {
		t.Errorf("%s paid = %v, want %v", member, b.Paid, paid)
	}
	if math.Abs(b.Owes-owes) > 0.01 {
		t.Errorf("%s owes = %v, want %v", member, b.Owes, owes)
	}
	if math.Abs(b.Net-net) > 0.01 {
		t.Errorf("%s net = %v, want %v", member, b.Net, net)
	}
}

func assertTransfers(t *testing.T, got []Transfer, want []Transfer) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("transfers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].From != want[i].From || got[i].To != want[i].To || !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("transfer %d = %s->%s %s, want %s->%s %s", i,
				got[i].From, got[i].To, got[i].Amount, want[i].From, want[i].To, want[i].Amount)
		}
	}
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSettle_Scenarios(t *testing.T) {
	dinner := Expense{ID: "e1", Payer: "Alice", Amount: 90, Participants: trio}

	tests := []struct {
		name          string
		input         Input
		wantTransfers []Transfer
		validateFunc  func(t *testing.T, s Settlement)
	}{
		{
			name:  "one expense split three ways",
			input: Input{Members: trio, Expenses: []Expense{dinner}},
			wantTransfers: []Transfer{
				{From: "Bob", To: "Alice", Amount: amt("30")},
				{From: "Carol", To: "Alice", Amount: amt("30")},
			},
			validateFunc: func(t *testing.T, s Settlement) {
				assertBalance(t, s.Balances, "Alice", 90, 30, 60)
				assertBalance(t, s.Balances, "Bob", 0, 30, -30)
				assertBalance(t, s.Balances, "Carol", 0, 30, -30)
			},
		},
		{
			name: "completed transfer shifts nets",
			input: Input{
				Members:   trio,
				Expenses:  []Expense{dinner},
				Completed: []CompletedTransfer{{From: "Bob", To: "Alice", Amount: 30}},
			},
			wantTransfers: []Transfer{
				{From: "Carol", To: "Alice", Amount: amt("30")},
			},
			validateFunc: func(t *testing.T, s Settlement) {
				assertBalance(t, s.Balances, "Alice", 90, 30, 30)
				assertBalance(t, s.Balances, "Bob", 0, 30, 0)
				assertBalance(t, s.Balances, "Carol", 0, 30, -30)
			},
		},
		{
			name:  "no members gives empty settlement",
			input: Input{Expenses: []Expense{dinner}},
			validateFunc: func(t *testing.T, s Settlement) {
				if s.Balances.Len() != 0 {
					t.Errorf("expected no balances, got %d", s.Balances.Len())
				}
				if s.Summary.Total != 0 || s.Summary.Count != 0 || s.Summary.Average != 0 {
					t.Errorf("expected zero summary, got %+v", s.Summary)
				}
			},
		},
		{
			name: "expense with departed participant is excluded",
			input: Input{
				Members: trio,
				Expenses: []Expense{
					{ID: "e2", Payer: "Alice", Amount: 50, Participants: []string{"Alice", "Dave"}},
				},
			},
			validateFunc: func(t *testing.T, s Settlement) {
				assertBalance(t, s.Balances, "Alice", 0, 0, 0)
				if s.Counted != 0 {
					t.Errorf("expected 0 counted expenses, got %d", s.Counted)
				}
			},
		},
		{
			name: "uneven division is rounded only at emission",
			input: Input{
				Members:  trio,
				Expenses: []Expense{{ID: "e3", Payer: "Alice", Amount: 100, Participants: trio}},
			},
			wantTransfers: []Transfer{
				{From: "Bob", To: "Alice", Amount: amt("33.33")},
				{From: "Carol", To: "Alice", Amount: amt("33.33")},
			},
			validateFunc: func(t *testing.T, s Settlement) {
				b, _ := s.Balances.Get("Alice")
				if math.Abs(b.Net-200.0/3) > 1e-9 {
					t.Errorf("Alice net = %v, want unrounded %v", b.Net, 200.0/3)
				}
			},
		},
		{
			name: "completed transfer naming a non-member is skipped",
			input: Input{
				Members:   trio,
				Expenses:  []Expense{dinner},
				Completed: []CompletedTransfer{{From: "Dave", To: "Alice", Amount: 10}},
			},
			wantTransfers: []Transfer{
				{From: "Bob", To: "Alice", Amount: amt("30")},
				{From: "Carol", To: "Alice", Amount: amt("30")},
			},
			validateFunc: func(t *testing.T, s Settlement) {
				if s.SkippedTransfers != 1 {
					t.Errorf("expected 1 skipped transfer, got %d", s.SkippedTransfers)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestCalculator().Settle(tt.input)
			assertTransfers(t, s.Transfers, tt.wantTransfers)
			if tt.validateFunc != nil {
				tt.validateFunc(t, s)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	members := NewMemberSet(trio)
	expenses := []Expense{
		{ID: "ok", Payer: "Alice", Amount: 10, Participants: []string{"Bob"}},
		{ID: "no-participants", Payer: "Bob", Amount: 10},
		{ID: "payer-left", Payer: "Dave", Amount: 10, Participants: []string{"Alice"}},
		{ID: "participant-left", Payer: "Alice", Amount: 10, Participants: []string{"Bob", "Dave"}},
		{ID: "zero", Payer: "Alice", Amount: 0, Participants: []string{"Bob"}},
		{ID: "no-payer", Amount: 10, Participants: []string{"Bob"}},
	}

	got := newTestCalculator().Filter(expenses, members)
	if len(got) != 2 || got[0].ID != "ok" || got[1].ID != "no-participants" {
		t.Errorf("Filter kept %v", got)
	}

	if out := newTestCalculator().Filter(expenses, NewMemberSet(nil)); len(out) != 0 {
		t.Errorf("expected empty result for no members, got %d", len(out))
	}
}

func TestBalances_ZeroParticipantsContributesNothing(t *testing.T) {
	c := newTestCalculator()
	sheet := c.Balances(NewMemberSet(trio), []Expense{{ID: "e", Payer: "Alice", Amount: 40}})
	assertBalance(t, sheet, "Alice", 0, 0, 0)
}

func TestSimplify_ConfigBoundaries(t *testing.T) {
	expenses := []Expense{{Payer: "Alice", Amount: 3, Participants: []string{"Alice", "Bob"}}}
	members := NewMemberSet([]string{"Alice", "Bob"})

	tests := []struct {
		name string
		cfg  Config
		want []Transfer
	}{
		{name: "net above tolerance", cfg: Config{Tolerance: 1, Places: 2}, want: []Transfer{{From: "Bob", To: "Alice", Amount: amt("1.5")}}},
		{name: "net below tolerance", cfg: Config{Tolerance: 2, Places: 2}},
		{name: "zero places", cfg: Config{Tolerance: 0.01, Places: 0}, want: []Transfer{{From: "Bob", To: "Alice", Amount: amt("2")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(tt.cfg)
			got := c.Simplify(c.Balances(members, expenses))
			assertTransfers(t, got, tt.want)
		})
	}
}

func TestSimplify_LargestFirst(t *testing.T) {
	members := NewMemberSet([]string{"A", "B", "C", "D"})
	// A +50, B +10, C -45, D -15
	expenses := []Expense{
		{Payer: "A", Amount: 50, Participants: []string{"C"}},
		{Payer: "B", Amount: 10, Participants: []string{"D"}},
		{Payer: "C", Amount: 5, Participants: []string{"D"}},
	}
	c := newTestCalculator()
	got := c.Simplify(c.Balances(members, expenses))
	assertTransfers(t, got, []Transfer{
		{From: "C", To: "A", Amount: amt("45")},
		{From: "D", To: "A", Amount: amt("5")},
		{From: "D", To: "B", Amount: amt("10")},
	})
}

func TestCalculator_Defaults(t *testing.T) {
	c := NewCalculator(Config{Tolerance: -1, Places: -3})
	if c.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", c.Config())
	}
}

// randomInput builds a trip whose nets are whole numbers, so greedy
// settlement must drive every member exactly to zero.
func randomInput(r *rand.Rand) Input {
	names := []string{"ana", "ben", "cid", "dee", "eli", "fay"}
	members := names[:1+r.Intn(len(names))]

	var expenses []Expense
	for i := 0; i < r.Intn(12); i++ {
		var participants []string
		for _, m := range members {
			if r.Intn(2) == 0 {
				participants = append(participants, m)
			}
		}
		if len(participants) == 0 {
			participants = []string{members[0]}
		}
		share := float64(1 + r.Intn(50))
		expenses = append(expenses, Expense{
			Payer:        members[r.Intn(len(members))],
			Amount:       share * float64(len(participants)),
			Participants: participants,
		})
	}

	var completed []CompletedTransfer
	for i := 0; i < r.Intn(3); i++ {
		completed = append(completed, CompletedTransfer{
			From:   members[r.Intn(len(members))],
			To:     members[r.Intn(len(members))],
			Amount: float64(1 + r.Intn(20)),
		})
	}
	return Input{Members: members, Expenses: expenses, Completed: completed}
}

func TestSettle_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	c := newTestCalculator()

	for i := 0; i < 500; i++ {
		in := randomInput(r)
		s := c.Settle(in)

		if total := s.Balances.TotalNet(); math.Abs(total) > DefaultTolerance {
			t.Fatalf("case %d: net balances sum to %v, want 0", i, total)
		}

		nets := make(map[string]float64)
		creditors, debtors := 0, 0
		for _, b := range s.Balances.Rows() {
			nets[b.Member] = b.Net
			if b.Net > DefaultTolerance {
				creditors++
			} else if b.Net < -DefaultTolerance {
				debtors++
			}
		}
		for _, tr := range s.Transfers {
			nets[tr.From] += tr.Amount.InexactFloat64()
			nets[tr.To] -= tr.Amount.InexactFloat64()
		}
		for m, net := range nets {
			if math.Abs(net) > DefaultTolerance {
				t.Fatalf("case %d: %s left at %v after settlement (%+v)", i, m, net, in)
			}
		}

		if limit := creditors + debtors - 1; len(s.Transfers) > 0 && len(s.Transfers) > limit {
			t.Errorf("case %d: %d transfers exceeds bound %d", i, len(s.Transfers), limit)
		}
	}
}

func TestSettle_SpendingAndSummary(t *testing.T) {
	s := newTestCalculator().Settle(Input{
		Members: trio,
		Expenses: []Expense{
			{Payer: "Alice", Amount: 90, Participants: trio, Category: "Food"},
			{Payer: "Bob", Amount: 30, Participants: trio},
			{Payer: "Dave", Amount: 500, Participants: trio, Category: "Food"},
		},
	})

	if s.Summary.Count != 2 || s.Summary.Total != 120 || s.Summary.Average != 60 {
		t.Errorf("summary = %+v", s.Summary)
	}
	if s.Spending.ByMember["Alice"] != 90 || s.Spending.ByMember["Bob"] != 30 {
		t.Errorf("by member = %v", s.Spending.ByMember)
	}
	if v, ok := s.Spending.ByMember["Carol"]; !ok || v != 0 {
		t.Errorf("expected Carol present with 0, got %v (present=%v)", v, ok)
	}
	if s.Spending.ByCategory["Food"] != 90 || s.Spending.ByCategory[UncategorizedLabel] != 30 {
		t.Errorf("by category = %v", s.Spending.ByCategory)
	}
}
