package gormstore

import (
	"context"

	groupDomain "savings-group-backend/internal/domain/group"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct{ db *gorm.DB }

func NewGroupRepository(db *gorm.DB) *GroupRepository { return &GroupRepository{db: db} }

func (r *GroupRepository) Create(ctx context.Context, g *groupDomain.Group) error {
	return classify(r.db.WithContext(ctx).Create(g).Error)
}

func (r *GroupRepository) GetByGroupID(ctx context.Context, groupID string) (*groupDomain.Group, error) {
	var out groupDomain.Group
	res := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&out)
	return &out, classify(res.Error)
}

func (r *GroupRepository) GetByGroupIDForUpdate(ctx context.Context, groupID string) (*groupDomain.Group, error) {
	var out groupDomain.Group
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_id = ?", groupID).
		First(&out)
	return &out, classify(res.Error)
}

// Adjust increments both totals in a single UPDATE so concurrent writers never
// overwrite each other's deltas.
func (r *GroupRepository) Adjust(ctx context.Context, groupID string, savingsDelta, loansDelta decimal.Decimal) error {
	if r.db.Dialector.Name() == "sqlite" {
		return r.adjustExact(ctx, groupID, savingsDelta, loansDelta)
	}
	res := r.db.WithContext(ctx).
		Model(&groupDomain.Group{}).
		Where("group_id = ?", groupID).
		Updates(map[string]any{
			"total_savings":           gorm.Expr("total_savings + ?", savingsDelta),
			"total_outstanding_loans": gorm.Expr("total_outstanding_loans + ?", loansDelta),
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// adjustExact adds the deltas in decimal and writes the results back. sqlite
// stores decimal columns as REAL, so "col + ?" would add in floating point.
// sqlite allows a single writer, which keeps the read and the write together.
func (r *GroupRepository) adjustExact(ctx context.Context, groupID string, savingsDelta, loansDelta decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g groupDomain.Group
		if err := tx.Where("group_id = ?", groupID).First(&g).Error; err != nil {
			return classify(err)
		}
		res := tx.Model(&groupDomain.Group{}).
			Where("group_id = ?", groupID).
			Updates(map[string]any{
				"total_savings":           g.TotalSavings.Add(savingsDelta),
				"total_outstanding_loans": g.TotalOutstandingLoans.Add(loansDelta),
			})
		return classify(res.Error)
	})
}
