package loan

import (
	"time"

	"savings-group-backend/internal/domain/loan"
	"savings-group-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

type CreateRequestInput struct {
	GroupID       string
	RequesterID   string
	RequesterName string
	Principal     decimal.Decimal
	Installments  int
	Rate          decimal.Decimal // percent, 0..50
	Reason        string
}

type CastVoteInput struct {
	LoanID       string
	VoterID      string
	VoterName    string
	Approve      bool
	TotalMembers int
}

type RegisterPaymentInput struct {
	LoanID  string
	PayerID string
	Amount  decimal.Decimal
	Note    string
}

type VoteDTO struct {
	VoterID   string    `json:"voter_id"`
	VoterName string    `json:"voter_name"`
	Approved  bool      `json:"approved"`
	CastAt    time.Time `json:"cast_at"`
}

type LoanDTO struct {
	LoanID            string          `json:"loan_id"`
	GroupID           string          `json:"group_id"`
	RequesterID       string          `json:"requester_id"`
	RequesterName     string          `json:"requester_name"`
	Principal         decimal.Decimal `json:"principal"`
	Installments      int             `json:"installments"`
	Rate              decimal.Decimal `json:"rate"`
	Reason            string          `json:"reason"`
	State             string          `json:"state"`
	TotalPayable      decimal.Decimal `json:"total_payable"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	Outstanding       decimal.Decimal `json:"outstanding"`
	PercentPaid       decimal.Decimal `json:"percent_paid"`
	VotesFor          int             `json:"votes_for"`
	VotesAgainst      int             `json:"votes_against"`
	Votes             []VoteDTO       `json:"votes"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	RejectedAt        *time.Time      `json:"rejected_at,omitempty"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// VoteResultDTO reports the request after the vote and whether it closed it.
type VoteResultDTO struct {
	Loan    LoanDTO `json:"loan"`
	Outcome string  `json:"outcome"`
}

type PaymentDTO struct {
	PaymentID        string          `json:"payment_id"`
	LoanID           string          `json:"loan_id"`
	GroupID          string          `json:"group_id"`
	PayerID          string          `json:"payer_id"`
	Amount           decimal.Decimal `json:"amount"`
	InterestPortion  decimal.Decimal `json:"interest_portion"`
	CapitalPortion   decimal.Decimal `json:"capital_portion"`
	InstallmentIndex int             `json:"installment_index"`
	Note             string          `json:"note,omitempty"`
	PaidAt           time.Time       `json:"paid_at"`
}

// PaymentResultDTO is the payment plus the loan as it stands afterwards.
type PaymentResultDTO struct {
	Payment PaymentDTO `json:"payment"`
	Loan    LoanDTO    `json:"loan"`
}

func toLoanDTO(l *loan.LoanRequest) LoanDTO {
	votes := make([]VoteDTO, 0, len(l.Votes))
	for _, v := range l.Votes {
		votes = append(votes, VoteDTO{VoterID: v.VoterID, VoterName: v.VoterName, Approved: v.Approved, CastAt: v.CastAt})
	}
	return LoanDTO{
		LoanID:            l.LoanID,
		GroupID:           l.GroupID,
		RequesterID:       l.RequesterID,
		RequesterName:     l.RequesterName,
		Principal:         l.Principal,
		Installments:      l.Installments,
		Rate:              l.Rate,
		Reason:            l.Reason,
		State:             string(l.State),
		TotalPayable:      loan.TotalPayable(l).Round(2),
		InstallmentAmount: loan.InstallmentAmount(l).Round(2),
		AmountPaid:        l.AmountPaid,
		Outstanding:       loan.Outstanding(l).Round(2),
		PercentPaid:       loan.PercentPaid(l),
		VotesFor:          loan.VotesFor(l.Votes),
		VotesAgainst:      loan.VotesAgainst(l.Votes),
		Votes:             votes,
		ApprovedAt:        l.ApprovedAt,
		RejectedAt:        l.RejectedAt,
		CompletedAt:       l.CompletedAt,
		CreatedAt:         l.CreatedAt,
	}
}

func toPaymentDTO(p *payment.LoanPayment) PaymentDTO {
	return PaymentDTO{
		PaymentID:        p.PaymentID,
		LoanID:           p.LoanID,
		GroupID:          p.GroupID,
		PayerID:          p.PayerID,
		Amount:           p.Amount,
		InterestPortion:  p.InterestPortion,
		CapitalPortion:   p.CapitalPortion,
		InstallmentIndex: p.InstallmentIndex,
		Note:             p.Note,
		PaidAt:           p.PaidAt,
	}
}
