package loanmock

import (
	"context"
	"time"

	domain "savings-group-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Lookups without a function return context.Canceled; writes default to no-ops.
type Repo struct {
	CreateFn                   func(ctx context.Context, l *domain.LoanRequest) error
	GetByLoanIDFn              func(ctx context.Context, loanID string) (*domain.LoanRequest, error)
	GetByLoanIDForUpdateFn     func(ctx context.Context, loanID string) (*domain.LoanRequest, error)
	SaveFn                     func(ctx context.Context, l *domain.LoanRequest) error
	AppendVoteFn               func(ctx context.Context, v *domain.Vote) error
	ListByGroupFn              func(ctx context.Context, groupID string, state domain.State) ([]domain.LoanRequest, error)
	ListPendingCreatedBeforeFn func(ctx context.Context, cutoff time.Time) ([]domain.LoanRequest, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.LoanRequest, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.LoanRequest, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) AppendVote(ctx context.Context, v *domain.Vote) error {
	if m.AppendVoteFn != nil {
		return m.AppendVoteFn(ctx, v)
	}
	return nil
}

func (m *Repo) ListByGroup(ctx context.Context, groupID string, state domain.State) ([]domain.LoanRequest, error) {
	if m.ListByGroupFn != nil {
		return m.ListByGroupFn(ctx, groupID, state)
	}
	return nil, context.Canceled
}

func (m *Repo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.LoanRequest, error) {
	if m.ListPendingCreatedBeforeFn != nil {
		return m.ListPendingCreatedBeforeFn(ctx, cutoff)
	}
	return nil, context.Canceled
}
