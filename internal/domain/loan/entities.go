package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type State string

const (
	StatePending   State = "pending"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
	StateCompleted State = "completed"
)

// Validation bounds for new requests.
const (
	MinInstallments = 1
	MaxInstallments = 60
	MaxRatePercent  = 50
)

// QuorumTimeout is how long a request may stay open before a single vote is enough to close it.
const QuorumTimeout = 72 * time.Hour

// Epsilon is the tolerance used for every money comparison.
var Epsilon = decimal.New(1, -2)

type LoanRequest struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID        string          `gorm:"size:32;uniqueIndex:ux_loan_requests_loan_id" json:"loan_id"`
	GroupID       string          `gorm:"size:32;index:idx_loan_requests_group_state" json:"group_id"`
	RequesterID   string          `gorm:"size:64;index" json:"requester_id"`
	RequesterName string          `gorm:"size:128" json:"requester_name"`
	Principal     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"principal"`
	Installments  int             `gorm:"not null" json:"installments"`
	Rate          decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"rate"`
	Reason        string          `gorm:"type:text" json:"reason"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"amount_paid"`
	State         State           `gorm:"size:16;not null;default:'pending';index:idx_loan_requests_group_state" json:"state"`
	Votes         []Vote          `gorm:"foreignKey:LoanRequestID" json:"votes"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	RejectedAt    *time.Time      `json:"rejected_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Version       int64           `gorm:"not null;default:0" json:"-"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// Vote is immutable once cast; (loan_request_id, voter_id) is unique.
type Vote struct {
	ID            uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanRequestID uint64    `gorm:"not null;uniqueIndex:ux_loan_votes_voter" json:"-"`
	VoterID       string    `gorm:"size:64;not null;uniqueIndex:ux_loan_votes_voter" json:"voter_id"`
	VoterName     string    `gorm:"size:128" json:"voter_name"`
	Approved      bool      `gorm:"not null" json:"approved"`
	CastAt        time.Time `gorm:"not null" json:"cast_at"`
}

func (Vote) TableName() string { return "loan_votes" }
