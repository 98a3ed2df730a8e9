package groupmock

import (
	"context"

	domain "savings-group-backend/internal/domain/group"

	"github.com/shopspring/decimal"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, g *domain.Group) error
	GetByGroupIDFn          func(ctx context.Context, groupID string) (*domain.Group, error)
	GetByGroupIDForUpdateFn func(ctx context.Context, groupID string) (*domain.Group, error)
	AdjustFn                func(ctx context.Context, groupID string, savingsDelta, loansDelta decimal.Decimal) error
}

func (m *Repo) Create(ctx context.Context, g *domain.Group) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, g)
	}
	return nil
}

func (m *Repo) GetByGroupID(ctx context.Context, groupID string) (*domain.Group, error) {
	if m.GetByGroupIDFn != nil {
		return m.GetByGroupIDFn(ctx, groupID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByGroupIDForUpdate(ctx context.Context, groupID string) (*domain.Group, error) {
	if m.GetByGroupIDForUpdateFn != nil {
		return m.GetByGroupIDForUpdateFn(ctx, groupID)
	}
	return nil, context.Canceled
}

func (m *Repo) Adjust(ctx context.Context, groupID string, savingsDelta, loansDelta decimal.Decimal) error {
	if m.AdjustFn != nil {
		return m.AdjustFn(ctx, groupID, savingsDelta, loansDelta)
	}
	return nil
}
