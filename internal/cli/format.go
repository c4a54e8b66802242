// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with two fraction digits and thousands
// separators.
// e.g., 1234.5 -> "1,234.50", -30 -> "-30.00"
func FormatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(whole) + "." + frac
}

// FormatNet formats a net balance with an explicit sign, so that creditors
// read "+60.00" and debtors "-30.00". Zero has no sign.
func FormatNet(d decimal.Decimal) string {
	if d.Round(2).IsPositive() {
		return "+" + FormatMoney(d)
	}
	if d.Round(2).IsZero() {
		return FormatMoney(decimal.Zero)
	}
	return FormatMoney(d)
}

// FormatTime formats a Unix timestamp for tables. Zero renders as "-".
func FormatTime(unix int64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(unix, 0).Local().Format("2006-01-02 15:04")
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
