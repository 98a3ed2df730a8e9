package uow

import (
	"context"

	"savings-group-backend/internal/domain/group"
	"savings-group-backend/internal/domain/ledger"
	"savings-group-backend/internal/domain/loan"
	"savings-group-backend/internal/domain/payment"
)

// Repos are bound to a single transaction.
type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
	Groups   group.Repository
	Ledger   ledger.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.LoanRequest) error) error
}
