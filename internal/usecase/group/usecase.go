package group

import (
	"context"
	"fmt"
	"log"

	"savings-group-backend/internal/domain/apperr"
	"savings-group-backend/internal/domain/group"
	"savings-group-backend/internal/domain/ledger"
	"savings-group-backend/internal/domain/uow"
	"savings-group-backend/internal/usecase/txrun"
	"savings-group-backend/pkg/id"

	"github.com/shopspring/decimal"
)

// Usecase exposes the group projection and the savings movements that feed it.
type Usecase struct {
	repos    uow.Repos
	uow      uow.UnitOfWork
	attempts int
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, attempts int) *Usecase {
	return &Usecase{repos: repos, uow: tx, attempts: attempts}
}

func groupNotFound(groupID string) string { return fmt.Sprintf("group %s not found", groupID) }

func toDTO(g *group.Group) GroupDTO {
	return GroupDTO{
		GroupID:               g.GroupID,
		Name:                  g.Name,
		PresidentID:           g.PresidentID,
		MemberCount:           g.MemberCount,
		TotalSavings:          g.TotalSavings,
		TotalOutstandingLoans: g.TotalOutstandingLoans,
		CreatedAt:             g.CreatedAt,
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateGroupInput) (*GroupDTO, error) {
	switch {
	case in.Name == "":
		return nil, apperr.Validation("group name is required")
	case in.PresidentID == "":
		return nil, apperr.Validation("president id is required")
	case in.MemberCount < 2:
		return nil, apperr.Validation("a group needs at least 2 members")
	}
	g := &group.Group{
		GroupID:               id.NewID32(),
		Name:                  in.Name,
		PresidentID:           in.PresidentID,
		MemberCount:           in.MemberCount,
		TotalSavings:          decimal.Zero,
		TotalOutstandingLoans: decimal.Zero,
	}
	if err := u.repos.Groups.Create(ctx, g); err != nil {
		return nil, txrun.Translate(err, groupNotFound(g.GroupID))
	}
	dto := toDTO(g)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, groupID string) (*GroupDTO, error) {
	g, err := u.repos.Groups.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, txrun.Translate(err, groupNotFound(groupID))
	}
	dto := toDTO(g)
	return &dto, nil
}

// Totals is the projection read accessor.
func (u *Usecase) Totals(ctx context.Context, groupID string) (group.Totals, error) {
	g, err := u.repos.Groups.GetByGroupID(ctx, groupID)
	if err != nil {
		return group.Totals{}, txrun.Translate(err, groupNotFound(groupID))
	}
	return group.TotalsOf(g), nil
}

func (u *Usecase) Entries(ctx context.Context, groupID string) ([]EntryDTO, error) {
	if _, err := u.repos.Groups.GetByGroupID(ctx, groupID); err != nil {
		return nil, txrun.Translate(err, groupNotFound(groupID))
	}
	list, err := u.repos.Ledger.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, txrun.Translate(err, "ledger entries not found")
	}
	out := make([]EntryDTO, 0, len(list))
	for _, e := range list {
		dto := EntryDTO{
			EntryID:   e.EntryID,
			MemberID:  e.MemberID,
			Kind:      string(e.Kind),
			Amount:    e.Amount,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
		if e.LoanID != nil {
			dto.LoanID = *e.LoanID
		}
		out = append(out, dto)
	}
	return out, nil
}

// Deposit credits a member's savings contribution to the group.
func (u *Usecase) Deposit(ctx context.Context, in MovementInput) (*GroupDTO, error) {
	return u.move(ctx, "deposit", ledger.KindDeposit, in, in.Amount)
}

// Withdraw debits savings; it never takes the group below zero.
func (u *Usecase) Withdraw(ctx context.Context, in MovementInput) (*GroupDTO, error) {
	return u.move(ctx, "withdrawal", ledger.KindWithdrawal, in, in.Amount.Neg())
}

func (u *Usecase) move(ctx context.Context, op string, kind ledger.Kind, in MovementInput, delta decimal.Decimal) (*GroupDTO, error) {
	switch {
	case in.GroupID == "":
		return nil, apperr.Validation("group id is required")
	case in.MemberID == "":
		return nil, apperr.Validation("member id is required")
	case !in.Amount.IsPositive():
		return nil, apperr.Validation("amount must be greater than zero")
	case !ledger.WholeCents(in.Amount):
		return nil, apperr.Validation("amount must have at most 2 decimal places")
	}

	var dto GroupDTO
	err := txrun.Do(op, u.attempts, func() error {
		err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
			g, err := r.Groups.GetByGroupIDForUpdate(ctx, in.GroupID)
			if err != nil {
				return err
			}
			if delta.IsNegative() && g.TotalSavings.Add(delta).IsNegative() {
				return apperr.Validation("withdrawal %s exceeds group savings %s", in.Amount.StringFixed(2), g.TotalSavings.StringFixed(2))
			}
			if err := r.Groups.Adjust(ctx, in.GroupID, delta, decimal.Zero); err != nil {
				return err
			}
			if err := r.Ledger.Append(ctx, &ledger.Entry{
				EntryID:  id.NewID32(),
				GroupID:  in.GroupID,
				MemberID: in.MemberID,
				Kind:     kind,
				Amount:   delta,
				Note:     in.Note,
			}); err != nil {
				return err
			}
			g.TotalSavings = g.TotalSavings.Add(delta)
			dto = toDTO(g)
			return nil
		})
		return txrun.Translate(err, groupNotFound(in.GroupID))
	})
	if err != nil {
		return nil, err
	}
	log.Printf("group %s: %s %s by %s", in.GroupID, op, in.Amount.StringFixed(2), in.MemberID)
	return &dto, nil
}
