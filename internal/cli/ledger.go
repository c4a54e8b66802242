package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mmynk/tripledger/internal/ledger"
	"github.com/mmynk/tripledger/internal/models"
)

// RenderBalances renders one row per member: paid, owed share and net.
func RenderBalances(calc *ledger.Calculator, sheet *ledger.BalanceSheet) string {
	rows := make([][]string, 0, sheet.Len())
	for _, b := range sheet.Rows() {
		net := calc.Round(b.Net)
		style := valueStyle
		switch {
		case net.IsPositive():
			style = creditStyle
		case net.IsNegative():
			style = debitStyle
		}
		rows = append(rows, []string{
			b.Member,
			FormatMoney(calc.Round(b.Paid)),
			FormatMoney(calc.Round(b.Owes)),
			style.Render(FormatNet(net)),
		})
	}

	return RenderTable(Table{
		Title:   "Balances",
		Headers: []string{"Member", "Paid", "Share", "Net"},
		Rows:    rows,
	})
}

// RenderSettlement renders the suggested transfers and the expense totals.
func RenderSettlement(calc *ledger.Calculator, s ledger.Settlement) string {
	var b strings.Builder

	if len(s.Transfers) == 0 {
		b.WriteString(RenderMuted("Everyone is settled up."))
		b.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(s.Transfers))
		for _, t := range s.Transfers {
			rows = append(rows, []string{t.From, t.To, FormatMoney(t.Amount)})
		}
		b.WriteString(RenderTable(Table{
			Title:   "Suggested transfers",
			Headers: []string{"From", "To", "Amount"},
			Rows:    rows,
		}))
	}

	b.WriteString(RenderMuted(fmt.Sprintf("%d expenses, total %s, average %s",
		s.Summary.Count,
		FormatMoney(calc.Round(s.Summary.Total)),
		FormatMoney(calc.Round(s.Summary.Average)),
	)))
	b.WriteString("\n")

	if s.SkippedTransfers > 0 {
		b.WriteString(RenderWarning(fmt.Sprintf("%d completed transfers ignored: they name former members", s.SkippedTransfers)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSpending renders counted expenses by payer and by category, largest
// first.
func RenderSpending(calc *ledger.Calculator, sp ledger.Spending) string {
	return RenderTable(Table{
		Title:   "Spending by member",
		Headers: []string{"Member", "Paid"},
		Rows:    spendingRows(calc, sp.ByMember),
	}) + RenderTable(Table{
		Title:   "Spending by category",
		Headers: []string{"Category", "Amount"},
		Rows:    spendingRows(calc, sp.ByCategory),
	})
}

func spendingRows(calc *ledger.Calculator, amounts map[string]float64) [][]string {
	labels := make([]string, 0, len(amounts))
	for label := range amounts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if amounts[labels[i]] != amounts[labels[j]] {
			return amounts[labels[i]] > amounts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{label, FormatMoney(calc.Round(amounts[label]))})
	}
	return rows
}

// RenderTransfers renders stored transfers in the order given.
func RenderTransfers(transfers []*models.Transfer) string {
	if len(transfers) == 0 {
		return RenderMuted("No transfers.") + "\n"
	}

	rows := make([][]string, 0, len(transfers))
	for _, t := range transfers {
		status := mutedStyle.Render(string(t.Status))
		if t.Status == models.TransferCompleted {
			status = creditStyle.Render(string(t.Status))
		}
		rows = append(rows, []string{
			t.ID,
			t.From,
			t.To,
			FormatMoney(t.Amount),
			status,
			FormatTime(t.CompletedAt),
		})
	}

	return RenderTable(Table{
		Title:   "Transfers",
		Headers: []string{"ID", "From", "To", "Amount", "Status", "Completed"},
		Rows:    rows,
	})
}
