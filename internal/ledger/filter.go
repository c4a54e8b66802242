package ledger

import "sort"

// MemberSet is the set of usernames currently on a trip.
type MemberSet map[string]struct{}

// NewMemberSet builds a MemberSet, ignoring empty names.
func NewMemberSet(members []string) MemberSet {
	set := make(MemberSet, len(members))
	for _, m := range members {
		if m == "" {
			continue
		}
		set[m] = struct{}{}
	}
	return set
}

// Has reports whether username is a member.
func (s MemberSet) Has(username string) bool {
	_, ok := s[username]
	return ok
}

// Sorted returns the members in ascending order.
func (s MemberSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Filter keeps the expenses that may count toward balances: the payer is a
// current member and every recorded participant is a current member.
// Expenses with a non-positive amount or no payer are dropped as malformed.
// An empty member set yields an empty result.
func (c *Calculator) Filter(expenses []Expense, members MemberSet) []Expense {
	if len(members) == 0 {
		return nil
	}

	var valid []Expense
	for _, e := range expenses {
		if e.Payer == "" || e.Amount <= 0 {
			continue
		}
		if !members.Has(e.Payer) {
			continue
		}
		if !allMembers(e.Participants, members) {
			continue
		}
		valid = append(valid, e)
	}
	return valid
}

func allMembers(participants []string, members MemberSet) bool {
	for _, p := range participants {
		if !members.Has(p) {
			return false
		}
	}
	return true
}
