package payment

import "github.com/shopspring/decimal"

// SplitInput describes the loan before the payment is applied.
type SplitInput struct {
	TotalPayable      decimal.Decimal
	Principal         decimal.Decimal
	InstallmentAmount decimal.Decimal
	AlreadyPaid       decimal.Decimal
	Amount            decimal.Decimal
}

type Split struct {
	InterestPortion  decimal.Decimal
	CapitalPortion   decimal.Decimal
	InstallmentIndex int
}

// Allocate splits a payment proportionally between interest and capital.
// Interest is the only rounded value (half-up to cents); capital takes the
// remainder, so the two portions always add up to Amount exactly.
func Allocate(in SplitInput) Split {
	var interest decimal.Decimal
	if in.TotalPayable.IsPositive() {
		interestTotal := in.TotalPayable.Sub(in.Principal)
		interest = interestTotal.Mul(in.Amount).Div(in.TotalPayable).Round(2)
	}

	index := 1
	if in.InstallmentAmount.IsPositive() {
		index = int(in.AlreadyPaid.Div(in.InstallmentAmount).Floor().IntPart()) + 1
	}

	return Split{
		InterestPortion:  interest,
		CapitalPortion:   in.Amount.Sub(interest),
		InstallmentIndex: index,
	}
}
