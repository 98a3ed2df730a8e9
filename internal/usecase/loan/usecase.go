package loan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"savings-group-backend/internal/domain/apperr"
	"savings-group-backend/internal/domain/identity"
	"savings-group-backend/internal/domain/ledger"
	"savings-group-backend/internal/domain/loan"
	"savings-group-backend/internal/domain/payment"
	"savings-group-backend/internal/domain/uow"
	"savings-group-backend/internal/usecase/txrun"
	"savings-group-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// Usecase is the only code path that mutates loan requests, payments and the
// group totals they move.
type Usecase struct {
	repos    uow.Repos // reads outside a transaction
	uow      uow.UnitOfWork
	ids      identity.Provider
	now      func() time.Time
	attempts int
	timeout  time.Duration
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }
func WithMaxAttempts(n int) Option          { return func(u *Usecase) { u.attempts = n } }
func WithQuorumTimeout(d time.Duration) Option {
	return func(u *Usecase) { u.timeout = d }
}

// NewUsecase: pass read repos, a UoW for tx flows and the identity provider.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, ids identity.Provider, opts ...Option) *Usecase {
	u := &Usecase{
		repos:    repos,
		uow:      tx,
		ids:      ids,
		now:      func() time.Time { return time.Now().UTC() },
		attempts: txrun.DefaultAttempts,
		timeout:  loan.QuorumTimeout,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func loanNotFound(loanID string) string { return fmt.Sprintf("loan request %s not found", loanID) }

// inLoanTx runs fn against the locked loan and retries the whole closure on conflict.
func (u *Usecase) inLoanTx(ctx context.Context, op, loanID string, fn func(r uow.Repos, l *loan.LoanRequest) error) error {
	return txrun.Do(op, u.attempts, func() error {
		return txrun.Translate(u.uow.WithinLoanTx(ctx, loanID, fn), loanNotFound(loanID))
	})
}

func (u *Usecase) CreateRequest(ctx context.Context, in CreateRequestInput) (*LoanDTO, error) {
	switch {
	case in.GroupID == "":
		return nil, apperr.Validation("group id is required")
	case in.RequesterID == "":
		return nil, apperr.Validation("requester id is required")
	case !in.Principal.IsPositive():
		return nil, apperr.Validation("principal must be greater than zero")
	case !ledger.WholeCents(in.Principal):
		return nil, apperr.Validation("principal must have at most 2 decimal places")
	case in.Installments < loan.MinInstallments || in.Installments > loan.MaxInstallments:
		return nil, apperr.Validation("installments must be between %d and %d", loan.MinInstallments, loan.MaxInstallments)
	case in.Rate.IsNegative() || in.Rate.GreaterThan(decimal.NewFromInt(loan.MaxRatePercent)):
		return nil, apperr.Validation("rate must be between 0 and %d percent", loan.MaxRatePercent)
	case !ledger.WholeCents(in.Rate):
		return nil, apperr.Validation("rate must have at most 2 decimal places")
	}

	var l *loan.LoanRequest
	err := txrun.Do("create loan request", u.attempts, func() error {
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			if _, err := r.Groups.GetByGroupID(ctx, in.GroupID); err != nil {
				return err
			}
			l = &loan.LoanRequest{
				LoanID:        id.NewID32(),
				GroupID:       in.GroupID,
				RequesterID:   in.RequesterID,
				RequesterName: in.RequesterName,
				Principal:     in.Principal,
				Installments:  in.Installments,
				Rate:          in.Rate,
				Reason:        in.Reason,
				AmountPaid:    decimal.Zero,
				State:         loan.StatePending,
				CreatedAt:     u.now(),
			}
			return r.Loans.Create(ctx, l)
		})
		// the group lookup is the only read that can miss
		return txrun.Translate(err, fmt.Sprintf("group %s not found", in.GroupID))
	})
	if err != nil {
		return nil, err
	}
	log.Printf("loan %s: requested by %s in group %s (principal=%s)", l.LoanID, l.RequesterID, l.GroupID, l.Principal)
	dto := toLoanDTO(l)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, txrun.Translate(err, loanNotFound(loanID))
	}
	dto := toLoanDTO(l)
	return &dto, nil
}

// ListByGroup returns the group's requests, newest first; empty state means all.
func (u *Usecase) ListByGroup(ctx context.Context, groupID string, state loan.State) ([]LoanDTO, error) {
	if state != "" && !loan.IsValidState(state) {
		return nil, apperr.Validation("unknown loan state %q", state)
	}
	if _, err := u.repos.Groups.GetByGroupID(ctx, groupID); err != nil {
		return nil, txrun.Translate(err, fmt.Sprintf("group %s not found", groupID))
	}
	list, err := u.repos.Loans.ListByGroup(ctx, groupID, state)
	if err != nil {
		return nil, txrun.Translate(err, "loan requests not found")
	}
	out := make([]LoanDTO, 0, len(list))
	for i := range list {
		out = append(out, toLoanDTO(&list[i]))
	}
	return out, nil
}

func (u *Usecase) Payments(ctx context.Context, loanID string) ([]PaymentDTO, error) {
	if _, err := u.repos.Loans.GetByLoanID(ctx, loanID); err != nil {
		return nil, txrun.Translate(err, loanNotFound(loanID))
	}
	list, err := u.repos.Payments.ListByLoanID(ctx, loanID)
	if err != nil {
		return nil, txrun.Translate(err, "payments not found")
	}
	out := make([]PaymentDTO, 0, len(list))
	for i := range list {
		out = append(out, toPaymentDTO(&list[i]))
	}
	return out, nil
}

// CastVote appends a vote and, in the same transaction, closes and disburses
// the request when the tally says so.
func (u *Usecase) CastVote(ctx context.Context, in CastVoteInput) (*VoteResultDTO, error) {
	switch {
	case in.LoanID == "":
		return nil, apperr.Validation("loan id is required")
	case in.VoterID == "":
		return nil, apperr.Validation("voter id is required")
	case in.TotalMembers < 2:
		return nil, apperr.Validation("total members must be at least 2")
	}

	var res *VoteResultDTO
	err := u.inLoanTx(ctx, "cast vote", in.LoanID, func(r uow.Repos, l *loan.LoanRequest) error {
		if l.State != loan.StatePending {
			return apperr.InvalidState("loan request %s is %s; voting is closed", l.LoanID, l.State)
		}
		if in.VoterID == l.RequesterID {
			return apperr.Unauthorized("requesters cannot vote on their own loan request")
		}
		if loan.HasVoted(l.Votes, in.VoterID) {
			return apperr.DuplicateVote("member %s already voted on loan request %s", in.VoterID, l.LoanID)
		}

		now := u.now()
		v := &loan.Vote{
			LoanRequestID: l.ID,
			VoterID:       in.VoterID,
			VoterName:     in.VoterName,
			Approved:      in.Approve,
			CastAt:        now,
		}
		if err := r.Loans.AppendVote(ctx, v); err != nil {
			return err
		}
		l.Votes = append(l.Votes, *v)

		outcome := loan.TallyFor(l, in.TotalMembers, now, u.timeout)
		if outcome == loan.OutcomeNone {
			// bump the version so concurrent voters serialize on this row
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
		} else if err := u.close(ctx, r, l, outcome == loan.OutcomeApprove, now); err != nil {
			return err
		}
		res = &VoteResultDTO{Loan: toLoanDTO(l), Outcome: outcome.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ManualClose lets the group president decide a pending request directly.
func (u *Usecase) ManualClose(ctx context.Context, loanID string, approve bool) (*LoanDTO, error) {
	caller, ok := u.ids.CurrentUserID(ctx)
	if !ok {
		return nil, apperr.Unauthorized("caller identity is required")
	}

	var dto LoanDTO
	err := u.inLoanTx(ctx, "manual close", loanID, func(r uow.Repos, l *loan.LoanRequest) error {
		g, err := r.Groups.GetByGroupID(ctx, l.GroupID)
		if err != nil {
			return txrun.Translate(err, fmt.Sprintf("group %s not found", l.GroupID))
		}
		if caller != g.PresidentID {
			return apperr.Unauthorized("only the group president can close a loan request")
		}
		if l.State != loan.StatePending {
			return apperr.InvalidState("loan request %s is already %s", l.LoanID, l.State)
		}
		if err := u.close(ctx, r, l, approve, u.now()); err != nil {
			return err
		}
		dto = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

// close transitions a pending request and, on approval, disburses the principal.
// It must run inside the transaction that read l.
func (u *Usecase) close(ctx context.Context, r uow.Repos, l *loan.LoanRequest, approve bool, now time.Time) error {
	if l.State != loan.StatePending {
		return nil
	}
	at := now
	if approve {
		l.State = loan.StateApproved
		l.ApprovedAt = &at
	} else {
		l.State = loan.StateRejected
		l.RejectedAt = &at
	}
	if err := r.Loans.Save(ctx, l); err != nil {
		return err
	}
	if approve {
		if err := u.disburse(ctx, r, l); err != nil {
			return err
		}
	}
	log.Printf("loan %s: %s (for=%d against=%d)", l.LoanID, l.State, loan.VotesFor(l.Votes), loan.VotesAgainst(l.Votes))
	return nil
}

func (u *Usecase) disburse(ctx context.Context, r uow.Repos, l *loan.LoanRequest) error {
	if err := r.Groups.Adjust(ctx, l.GroupID, l.Principal.Neg(), l.Principal); err != nil {
		return txrun.Translate(err, fmt.Sprintf("group %s not found", l.GroupID))
	}
	loanID := l.LoanID
	return r.Ledger.Append(ctx, &ledger.Entry{
		EntryID:  id.NewID32(),
		GroupID:  l.GroupID,
		LoanID:   &loanID,
		MemberID: l.RequesterID,
		Kind:     ledger.KindDisbursement,
		Amount:   l.Principal.Neg(),
	})
}

// RegisterPayment records a repayment, splits it into interest and capital and
// credits the group, completing the loan when it is paid off.
func (u *Usecase) RegisterPayment(ctx context.Context, in RegisterPaymentInput) (*PaymentResultDTO, error) {
	switch {
	case in.LoanID == "":
		return nil, apperr.Validation("loan id is required")
	case in.PayerID == "":
		return nil, apperr.Validation("payer id is required")
	case !in.Amount.IsPositive():
		return nil, apperr.Validation("payment amount must be greater than zero")
	case !ledger.WholeCents(in.Amount):
		return nil, apperr.Validation("payment amount must have at most 2 decimal places")
	}

	var res *PaymentResultDTO
	err := u.inLoanTx(ctx, "register payment", in.LoanID, func(r uow.Repos, l *loan.LoanRequest) error {
		if !loan.IsPayable(l.State) {
			return apperr.InvalidState("loan request %s is %s; only approved loans accept payments", l.LoanID, l.State)
		}
		if in.PayerID != l.RequesterID {
			return apperr.Unauthorized("only the borrower can pay this loan")
		}
		outstanding := loan.Outstanding(l)
		if in.Amount.GreaterThan(outstanding.Add(loan.Epsilon)) {
			return apperr.Validation("payment %s exceeds outstanding balance %s", in.Amount.StringFixed(2), outstanding.StringFixed(2))
		}

		now := u.now()
		split := payment.Allocate(payment.SplitInput{
			TotalPayable:      loan.TotalPayable(l),
			Principal:         l.Principal,
			InstallmentAmount: loan.InstallmentAmount(l),
			AlreadyPaid:       l.AmountPaid,
			Amount:            in.Amount,
		})
		p := &payment.LoanPayment{
			PaymentID:        id.NewID32(),
			LoanID:           l.LoanID,
			GroupID:          l.GroupID,
			PayerID:          in.PayerID,
			Amount:           in.Amount,
			PaidAt:           now,
			Note:             in.Note,
			InstallmentIndex: split.InstallmentIndex,
			InterestPortion:  split.InterestPortion,
			CapitalPortion:   split.CapitalPortion,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}

		l.AmountPaid = l.AmountPaid.Add(in.Amount)
		completed := loan.IsPaidOff(l)
		if completed {
			l.State = loan.StateCompleted
			l.CompletedAt = &now
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		loansDelta := decimal.Zero
		if completed {
			loansDelta = l.Principal.Neg()
		}
		if err := r.Groups.Adjust(ctx, l.GroupID, split.CapitalPortion.Add(split.InterestPortion), loansDelta); err != nil {
			return txrun.Translate(err, fmt.Sprintf("group %s not found", l.GroupID))
		}
		loanID := l.LoanID
		if err := r.Ledger.Append(ctx, &ledger.Entry{
			EntryID:  id.NewID32(),
			GroupID:  l.GroupID,
			LoanID:   &loanID,
			MemberID: in.PayerID,
			Kind:     ledger.KindRepayment,
			Amount:   in.Amount,
			Note:     in.Note,
		}); err != nil {
			return err
		}

		if completed {
			log.Printf("loan %s: completed", l.LoanID)
		}
		res = &PaymentResultDTO{Payment: toPaymentDTO(p), Loan: toLoanDTO(l)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SweepExpired closes pending requests whose quorum timeout has passed and
// that have at least one vote. Each request is decided in its own transaction.
func (u *Usecase) SweepExpired(ctx context.Context) (int, error) {
	now := u.now()
	pending, err := u.repos.Loans.ListPendingCreatedBefore(ctx, now.Add(-u.timeout))
	if err != nil {
		return 0, txrun.Translate(err, "loan requests not found")
	}

	closed := 0
	var errs []error
	for _, p := range pending {
		didClose := false
		err := u.inLoanTx(ctx, "sweep", p.LoanID, func(r uow.Repos, l *loan.LoanRequest) error {
			didClose = false
			g, err := r.Groups.GetByGroupID(ctx, l.GroupID)
			if err != nil {
				return txrun.Translate(err, fmt.Sprintf("group %s not found", l.GroupID))
			}
			outcome := loan.TallyFor(l, g.MemberCount, now, u.timeout)
			if outcome == loan.OutcomeNone {
				return nil
			}
			didClose = true
			return u.close(ctx, r, l, outcome == loan.OutcomeApprove, now)
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("loan %s: %w", p.LoanID, err))
			continue
		}
		if didClose {
			closed++
		}
	}
	return closed, errors.Join(errs...)
}
