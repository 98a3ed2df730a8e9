package groupmock

import (
	"context"
	"testing"

	domain "savings-group-backend/internal/domain/group"

	"github.com/shopspring/decimal"
)

func TestRepo_UsesFuncs(t *testing.T) {
	ctx := context.Background()
	g := &domain.Group{GroupID: "G1", MemberCount: 5}
	var adjusted bool

	m := &Repo{
		GetByGroupIDFn:          func(context.Context, string) (*domain.Group, error) { return g, nil },
		GetByGroupIDForUpdateFn: func(context.Context, string) (*domain.Group, error) { return g, nil },
		AdjustFn: func(_ context.Context, groupID string, s, l decimal.Decimal) error {
			if groupID != "G1" || !s.Equal(decimal.NewFromInt(-1000)) || !l.Equal(decimal.NewFromInt(1000)) {
				t.Fatalf("Adjust args mismatch: %s %s %s", groupID, s, l)
			}
			adjusted = true
			return nil
		},
	}
	if got, err := m.GetByGroupID(ctx, "G1"); err != nil || got != g {
		t.Fatalf("GetByGroupID: got %v, %v", got, err)
	}
	if got, err := m.GetByGroupIDForUpdate(ctx, "G1"); err != nil || got != g {
		t.Fatalf("GetByGroupIDForUpdate: got %v, %v", got, err)
	}
	if err := m.Adjust(ctx, "G1", decimal.NewFromInt(-1000), decimal.NewFromInt(1000)); err != nil || !adjusted {
		t.Fatalf("Adjust: err=%v called=%v", err, adjusted)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if err := m.Create(ctx, &domain.Group{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if _, err := m.GetByGroupID(ctx, "G1"); err != context.Canceled {
		t.Fatalf("GetByGroupID default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetByGroupIDForUpdate(ctx, "G1"); err != context.Canceled {
		t.Fatalf("GetByGroupIDForUpdate default: want context.Canceled, got %v", err)
	}
	if err := m.Adjust(ctx, "G1", decimal.Zero, decimal.Zero); err != nil {
		t.Fatalf("Adjust default: want nil, got %v", err)
	}
}
