package payment

import "context"

type Repository interface {
	// Create appends a payment; there is no update or delete.
	Create(ctx context.Context, p *LoanPayment) error

	// ListByLoanID returns payments oldest first.
	ListByLoanID(ctx context.Context, loanID string) ([]LoanPayment, error)
}
