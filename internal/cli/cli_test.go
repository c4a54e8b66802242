package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"30", "30.00"},
		{"33.333", "33.33"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-30", "-30.00"},
		{"-1000", "-1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatMoney(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatNet(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"60", "+60.00"},
		{"-30", "-30.00"},
		{"0", "0.00"},
		{"-0.001", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := FormatNet(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("FormatNet(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(0); got != "-" {
		t.Errorf("FormatTime(0) = %q, want -", got)
	}
	if got := FormatTime(1700000000); len(got) != len("2006-01-02 15:04") {
		t.Errorf("FormatTime = %q, unexpected layout", got)
	}
}

func TestRenderTable(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	out := RenderTable(Table{
		Title:   "People",
		Headers: []string{"Name", "Amount"},
		Rows: [][]string{
			{"alice", "90.00"},
			{"---"},
			{"bob", "5.00"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "People") {
		t.Errorf("expected title line, got %q", lines[0])
	}
	if lines[5] != lines[3] {
		t.Errorf("expected separator row to match the header rule:\n%s\n%s", lines[3], lines[5])
	}
	if !strings.Contains(out, "│ bob   │   5.00 │") {
		t.Errorf("expected left name and right-aligned amount:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("expected no escape sequences with color disabled")
	}

	if got := RenderTable(Table{}); got != "" {
		t.Errorf("expected empty table to render nothing, got %q", got)
	}
}

func settle(t *testing.T) (*ledger.Calculator, ledger.Settlement) {
	t.Helper()
	calc := ledger.NewCalculator(ledger.DefaultConfig())
	return calc, calc.Settle(ledger.Input{
		Members: []string{"alice", "bob", "carol"},
		Expenses: []ledger.Expense{
			{ID: "e1", Payer: "alice", Amount: 90, Participants: []string{"alice", "bob", "carol"}, Category: "Food"},
		},
	})
}

func TestRenderBalances(t *testing.T) {
	SetColor(false)
	defer SetColor(true)
	calc, s := settle(t)

	out := RenderBalances(calc, s.Balances)
	for _, want := range []string{"alice", "+60.00", "bob", "-30.00", "carol"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderSettlement(t *testing.T) {
	SetColor(false)
	defer SetColor(true)
	calc, s := settle(t)

	out := RenderSettlement(calc, s)
	if !strings.Contains(out, "Suggested transfers") || strings.Count(out, "30.00") != 2 {
		t.Errorf("expected two 30.00 transfers:\n%s", out)
	}
	if !strings.Contains(out, "1 expenses, total 90.00, average 90.00") {
		t.Errorf("expected summary line:\n%s", out)
	}

	settled := RenderSettlement(calc, ledger.Settlement{Balances: s.Balances, SkippedTransfers: 1})
	if !strings.Contains(settled, "Everyone is settled up.") {
		t.Errorf("expected settled message:\n%s", settled)
	}
	if !strings.Contains(settled, "1 completed transfers ignored") {
		t.Errorf("expected skipped warning:\n%s", settled)
	}
}

func TestRenderSpending(t *testing.T) {
	SetColor(false)
	defer SetColor(true)
	calc, s := settle(t)

	out := RenderSpending(calc, s.Spending)
	alice := strings.Index(out, "alice")
	bob := strings.Index(out, "bob")
	if alice < 0 || bob < 0 || alice > bob {
		t.Errorf("expected alice listed before bob:\n%s", out)
	}
	if !strings.Contains(out, "Food") {
		t.Errorf("expected Food category:\n%s", out)
	}
}

func TestRenderTransfers(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	if out := RenderTransfers(nil); !strings.Contains(out, "No transfers.") {
		t.Errorf("expected empty message, got %q", out)
	}

	out := RenderTransfers([]*models.Transfer{
		{ID: "t1", From: "bob", To: "alice", Amount: decimal.NewFromInt(30), Status: models.TransferPending},
		{ID: "t2", From: "carol", To: "alice", Amount: decimal.NewFromInt(30), Status: models.TransferCompleted, CompletedAt: 1700000000},
	})
	for _, want := range []string{"t1", "pending", "t2", "completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
