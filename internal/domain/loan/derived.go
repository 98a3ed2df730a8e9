package loan

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TotalPayable is principal × (1 + rate/100).
func TotalPayable(l *LoanRequest) decimal.Decimal {
	return l.Principal.Mul(decimal.NewFromInt(1).Add(l.Rate.Div(hundred)))
}

// InterestTotal is the interest owed over the whole loan.
func InterestTotal(l *LoanRequest) decimal.Decimal {
	return TotalPayable(l).Sub(l.Principal)
}

// InstallmentAmount is unrounded; round only for display.
func InstallmentAmount(l *LoanRequest) decimal.Decimal {
	if l.Installments <= 0 {
		return decimal.Zero
	}
	return TotalPayable(l).Div(decimal.NewFromInt(int64(l.Installments)))
}

func Outstanding(l *LoanRequest) decimal.Decimal {
	return TotalPayable(l).Sub(l.AmountPaid)
}

// PercentPaid is capped at 100.
func PercentPaid(l *LoanRequest) decimal.Decimal {
	total := TotalPayable(l)
	if total.IsZero() {
		return decimal.Zero
	}
	p := l.AmountPaid.Div(total).Mul(hundred).Round(2)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// IsPaidOff uses the 0.01 tolerance.
func IsPaidOff(l *LoanRequest) bool {
	return l.AmountPaid.GreaterThanOrEqual(TotalPayable(l).Sub(Epsilon))
}

func VotesFor(votes []Vote) int {
	n := 0
	for _, v := range votes {
		if v.Approved {
			n++
		}
	}
	return n
}

func VotesAgainst(votes []Vote) int { return len(votes) - VotesFor(votes) }

func HasVoted(votes []Vote, voterID string) bool {
	for _, v := range votes {
		if v.VoterID == voterID {
			return true
		}
	}
	return false
}

// State predicates.

func IsValidState(s State) bool {
	switch s {
	case StatePending, StateApproved, StateRejected, StateCompleted:
		return true
	}
	return false
}

func IsPayable(s State) bool { return s == StateApproved }
