package ledger

import "sort"

type party struct {
	member    string
	remaining float64
}

// Simplify reduces net balances to settlement transfers using greedy
// largest-first matching:
//
//  1. creditors have net > tolerance, debtors net < -tolerance
//  2. both lists are sorted by magnitude, largest first (stable over the
//     sheet's username order)
//  3. the head debtor pays the head creditor min(both remainders); the
//     transfer is emitted when it exceeds the tolerance
//  4. a party whose remainder falls below the tolerance is advanced past
//
// The result has at most len(creditors)+len(debtors)-1 entries. It is not
// guaranteed to be the theoretical minimum number of transfers.
func (c *Calculator) Simplify(sheet *BalanceSheet) []Transfer {
	tol := c.cfg.Tolerance

	var creditors, debtors []party
	for _, r := range sheet.rows {
		switch {
		case r.Net > tol:
			creditors = append(creditors, party{member: r.Member, remaining: r.Net})
		case r.Net < -tol:
			debtors = append(debtors, party{member: r.Member, remaining: -r.Net})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].remaining > creditors[j].remaining })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].remaining > debtors[j].remaining })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		amount := creditor.remaining
		if debtor.remaining < amount {
			amount = debtor.remaining
		}

		if amount > tol {
			transfers = append(transfers, Transfer{
				From:   debtor.member,
				To:     creditor.member,
				Amount: c.Round(amount),
			})
		}

		creditor.remaining -= amount
		debtor.remaining -= amount

		if creditor.remaining < tol {
			i++
		}
		if debtor.remaining < tol {
			j++
		}
	}

	return transfers
}
