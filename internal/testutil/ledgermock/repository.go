package ledgermock

import (
	"context"

	domain "savings-group-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	AppendFn      func(ctx context.Context, e *domain.Entry) error
	ListByGroupFn func(ctx context.Context, groupID string) ([]domain.Entry, error)
	SumByGroupFn  func(ctx context.Context, groupID string) (decimal.Decimal, error)
}

func (m *Repo) Append(ctx context.Context, e *domain.Entry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *Repo) ListByGroup(ctx context.Context, groupID string) ([]domain.Entry, error) {
	if m.ListByGroupFn != nil {
		return m.ListByGroupFn(ctx, groupID)
	}
	return nil, context.Canceled
}

func (m *Repo) SumByGroup(ctx context.Context, groupID string) (decimal.Decimal, error) {
	if m.SumByGroupFn != nil {
		return m.SumByGroupFn(ctx, groupID)
	}
	return decimal.Zero, context.Canceled
}
