package http

import (
	"net/http"

	"savings-group-backend/internal/domain/identity"
	domainLoan "savings-group-backend/internal/domain/loan"
	"savings-group-backend/internal/usecase/group"
	"savings-group-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	uc     *loan.Usecase
	groups *group.Usecase
	ids    identity.Provider
}

func NewLoanHandler(uc *loan.Usecase, groups *group.Usecase, ids identity.Provider) *LoanHandler {
	return &LoanHandler{uc: uc, groups: groups, ids: ids}
}

type createLoanReq struct {
	RequesterName string          `json:"requester_name" validate:"max=128"`
	Principal     decimal.Decimal `json:"principal"      validate:"required,gt=0,dec2"`
	Installments  int             `json:"installments"   validate:"required,gte=1,lte=60"`
	Rate          decimal.Decimal `json:"rate"           validate:"gte=0,lte=50,dec2"`
	Reason        string          `json:"reason"         validate:"max=1000"`
}

type castVoteReq struct {
	VoterName string `json:"voter_name" validate:"max=128"`
	Approve   *bool  `json:"approve"    validate:"required"`
}

type closeLoanReq struct {
	Approve *bool `json:"approve" validate:"required"`
}

type paymentReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
	Note   string          `json:"note"   validate:"max=500"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var gp groupPath
	if err := bindPath(c, &gp); err != nil {
		return validationFailed(c, err)
	}
	member, ok := h.ids.CurrentUserID(c.Request().Context())
	if !ok {
		return missingIdentity(c)
	}
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.CreateRequest(c.Request().Context(), loan.CreateRequestInput{
		GroupID:       gp.GroupID,
		RequesterID:   member,
		RequesterName: req.RequesterName,
		Principal:     req.Principal,
		Installments:  req.Installments,
		Rate:          req.Rate,
		Reason:        req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	var lp loanPath
	if err := bindPath(c, &lp); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), lp.LoanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	var gp groupPath
	if err := bindPath(c, &gp); err != nil {
		return validationFailed(c, err)
	}
	list, err := h.uc.ListByGroup(c.Request().Context(), gp.GroupID, domainLoan.State(c.QueryParam("state")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) CastVote(c echo.Context) error {
	var lp loanPath
	if err := bindPath(c, &lp); err != nil {
		return validationFailed(c, err)
	}
	ctx := c.Request().Context()
	member, ok := h.ids.CurrentUserID(ctx)
	if !ok {
		return missingIdentity(c)
	}
	var req castVoteReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	// quorum size comes from the group the request belongs to
	current, err := h.uc.Get(ctx, lp.LoanID)
	if err != nil {
		return writeError(c, err)
	}
	g, err := h.groups.Get(ctx, current.GroupID)
	if err != nil {
		return writeError(c, err)
	}

	res, err := h.uc.CastVote(ctx, loan.CastVoteInput{
		LoanID:       current.LoanID,
		VoterID:      member,
		VoterName:    req.VoterName,
		Approve:      *req.Approve,
		TotalMembers: g.MemberCount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) CloseLoan(c echo.Context) error {
	var lp loanPath
	if err := bindPath(c, &lp); err != nil {
		return validationFailed(c, err)
	}
	if _, ok := h.ids.CurrentUserID(c.Request().Context()); !ok {
		return missingIdentity(c)
	}
	var req closeLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.ManualClose(c.Request().Context(), lp.LoanID, *req.Approve)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RegisterPayment(c echo.Context) error {
	var lp loanPath
	if err := bindPath(c, &lp); err != nil {
		return validationFailed(c, err)
	}
	member, ok := h.ids.CurrentUserID(c.Request().Context())
	if !ok {
		return missingIdentity(c)
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.uc.RegisterPayment(c.Request().Context(), loan.RegisterPaymentInput{
		LoanID:  lp.LoanID,
		PayerID: member,
		Amount:  req.Amount,
		Note:    req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *LoanHandler) ListPayments(c echo.Context) error {
	var lp loanPath
	if err := bindPath(c, &lp); err != nil {
		return validationFailed(c, err)
	}
	list, err := h.uc.Payments(c.Request().Context(), lp.LoanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
