package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *LoanRequest) error
	// GetByLoanID loads the request with its votes ordered by cast time.
	GetByLoanID(ctx context.Context, loanID string) (*LoanRequest, error)
	// GetByLoanIDForUpdate is GetByLoanID plus a row lock where the dialect has one.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*LoanRequest, error)
	// Save persists scalar fields; it fails with a conflict when l.Version is stale
	// and bumps l.Version on success.
	Save(ctx context.Context, l *LoanRequest) error
	AppendVote(ctx context.Context, v *Vote) error
	ListByGroup(ctx context.Context, groupID string, state State) ([]LoanRequest, error)
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]LoanRequest, error)
}
