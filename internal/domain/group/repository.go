package group

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByGroupID(ctx context.Context, groupID string) (*Group, error)
	// GetByGroupIDForUpdate also locks the row where the dialect supports it.
	GetByGroupIDForUpdate(ctx context.Context, groupID string) (*Group, error)
	// Adjust atomically adds the deltas to the group's totals.
	Adjust(ctx context.Context, groupID string, savingsDelta, loansDelta decimal.Decimal) error
}
