package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindDeposit      Kind = "deposit"
	KindWithdrawal   Kind = "withdrawal"
	KindDisbursement Kind = "disbursement"
	KindRepayment    Kind = "repayment"
)

// WholeCents reports whether d has at most two decimal places, the precision
// every money column stores.
func WholeCents(d decimal.Decimal) bool { return d.Equal(d.Round(2)) }

// Entry is one movement of group savings. Amount is the signed delta applied to
// Group.TotalSavings, so the sum of a group's entries equals its savings total.
type Entry struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	EntryID   string          `gorm:"type:char(32);not null;uniqueIndex:ux_ledger_entries_entry_id" json:"entry_id"`
	GroupID   string          `gorm:"size:32;not null;index" json:"group_id"`
	LoanID    *string         `gorm:"size:32;index" json:"loan_id,omitempty"`
	MemberID  string          `gorm:"size:64;not null" json:"member_id"`
	Kind      Kind            `gorm:"size:16;not null" json:"kind"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Note      string          `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }

type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByGroup(ctx context.Context, groupID string) ([]Entry, error)
	// SumByGroup returns Σ Amount for the group.
	SumByGroup(ctx context.Context, groupID string) (decimal.Decimal, error)
}
