package gormstore

import (
	"context"

	ledgerDomain "savings-group-backend/internal/domain/ledger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Append(ctx context.Context, e *ledgerDomain.Entry) error {
	return classify(r.db.WithContext(ctx).Create(e).Error)
}

func (r *LedgerRepository) ListByGroup(ctx context.Context, groupID string) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, classify(res.Error)
}

// SumByGroup adds amounts in decimal rather than in SQL so every dialect gives
// the same exact result.
func (r *LedgerRepository) SumByGroup(ctx context.Context, groupID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.Entry{}).
		Where("group_id = ?", groupID).
		Pluck("amount", &amounts)
	if res.Error != nil {
		return decimal.Zero, classify(res.Error)
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
