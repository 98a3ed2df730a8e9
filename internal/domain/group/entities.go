package group

import (
	"time"

	"github.com/shopspring/decimal"
)

// Group holds the running totals of a savings group. TotalSavings and
// TotalOutstandingLoans are projections of the ledger and change only
// through Repository.Adjust inside a unit of work.
type Group struct {
	ID                    uint64          `gorm:"primaryKey;column:id" json:"-"`
	GroupID               string          `gorm:"size:32;uniqueIndex:ux_savings_groups_group_id" json:"group_id"`
	Name                  string          `gorm:"size:128;not null" json:"name"`
	PresidentID           string          `gorm:"size:64;not null" json:"president_id"`
	MemberCount           int             `gorm:"not null" json:"member_count"`
	TotalSavings          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_savings"`
	TotalOutstandingLoans decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_outstanding_loans"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Group) TableName() string { return "savings_groups" }

// Totals is the read-only view of the projection.
type Totals struct {
	GroupID               string          `json:"group_id"`
	TotalSavings          decimal.Decimal `json:"total_savings"`
	TotalOutstandingLoans decimal.Decimal `json:"total_outstanding_loans"`
}

func TotalsOf(g *Group) Totals {
	return Totals{
		GroupID:               g.GroupID,
		TotalSavings:          g.TotalSavings,
		TotalOutstandingLoans: g.TotalOutstandingLoans,
	}
}
