package gormstore

import (
	"context"
	"errors"
	"time"

	"savings-group-backend/internal/domain/apperr"
	loanDomain "savings-group-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errStaleVersion = errors.New("loan request version changed")

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func orderedVotes(db *gorm.DB) *gorm.DB { return db.Order("cast_at ASC, id ASC") }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.LoanRequest) error {
	return classify(r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

// Save writes the mutable columns guarded by the version the caller read.
func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.LoanRequest) error {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.LoanRequest{}).
		Where("id = ? AND version = ?", l.ID, l.Version).
		Updates(map[string]any{
			"amount_paid":  l.AmountPaid,
			"state":        l.State,
			"approved_at":  l.ApprovedAt,
			"rejected_at":  l.RejectedAt,
			"completed_at": l.CompletedAt,
			"version":      l.Version + 1,
		})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict(errStaleVersion)
	}
	l.Version++
	return nil
}

func (r *LoanRepository) AppendVote(ctx context.Context, v *loanDomain.Vote) error {
	err := r.db.WithContext(ctx).Create(v).Error
	if err != nil && isUniqueViolation(err) {
		// someone else recorded this voter first; the retry will see it
		return apperr.Conflict(err)
	}
	return classify(err)
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Preload("Votes", orderedVotes).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, classify(res.Error)
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.LoanRequest, error) {
	var out loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Votes", orderedVotes).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, classify(res.Error)
}

func (r *LoanRepository) ListByGroup(ctx context.Context, groupID string, state loanDomain.State) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	q := r.db.WithContext(ctx).Preload("Votes", orderedVotes).Where("group_id = ?", groupID)
	if state != "" {
		q = q.Where("state = ?", state)
	}
	res := q.Order("created_at DESC, id DESC").Find(&out)
	return out, classify(res.Error)
}

func (r *LoanRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]loanDomain.LoanRequest, error) {
	var out []loanDomain.LoanRequest
	res := r.db.WithContext(ctx).
		Where("state = ? AND created_at <= ?", loanDomain.StatePending, cutoff).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, classify(res.Error)
}
