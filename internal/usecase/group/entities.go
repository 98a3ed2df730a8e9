package group

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateGroupInput struct {
	Name        string
	PresidentID string
	MemberCount int
}

type MovementInput struct {
	GroupID  string
	MemberID string
	Amount   decimal.Decimal
	Note     string
}

type GroupDTO struct {
	GroupID               string          `json:"group_id"`
	Name                  string          `json:"name"`
	PresidentID           string          `json:"president_id"`
	MemberCount           int             `json:"member_count"`
	TotalSavings          decimal.Decimal `json:"total_savings"`
	TotalOutstandingLoans decimal.Decimal `json:"total_outstanding_loans"`
	CreatedAt             time.Time       `json:"created_at"`
}

type EntryDTO struct {
	EntryID   string          `json:"entry_id"`
	LoanID    string          `json:"loan_id,omitempty"`
	MemberID  string          `json:"member_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
