package http

import (
	"context"
	"net/http"

	"savings-group-backend/internal/domain/identity"
	"savings-group-backend/internal/usecase/group"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type GroupHandler struct {
	uc  *group.Usecase
	ids identity.Provider
}

func NewGroupHandler(uc *group.Usecase, ids identity.Provider) *GroupHandler {
	return &GroupHandler{uc: uc, ids: ids}
}

type createGroupReq struct {
	Name        string `json:"name"         validate:"required,max=128"`
	PresidentID string `json:"president_id" validate:"required,memberid"`
	MemberCount int    `json:"member_count" validate:"required,gte=2"`
}

type movementReq struct {
	Amount decimal.Decimal `json:"amount" validate:"required,gt=0,dec2"`
	Note   string          `json:"note"   validate:"max=500"`
}

func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req createGroupReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), group.CreateGroupInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *GroupHandler) GetGroup(c echo.Context) error {
	var gp groupPath
	if err := bindPath(c, &gp); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), gp.GroupID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *GroupHandler) ListEntries(c echo.Context) error {
	var gp groupPath
	if err := bindPath(c, &gp); err != nil {
		return validationFailed(c, err)
	}
	list, err := h.uc.Entries(c.Request().Context(), gp.GroupID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *GroupHandler) Deposit(c echo.Context) error {
	return h.movement(c, h.uc.Deposit)
}

func (h *GroupHandler) Withdraw(c echo.Context) error {
	return h.movement(c, h.uc.Withdraw)
}

func (h *GroupHandler) movement(c echo.Context, op func(ctx context.Context, in group.MovementInput) (*group.GroupDTO, error)) error {
	var gp groupPath
	if err := bindPath(c, &gp); err != nil {
		return validationFailed(c, err)
	}
	member, ok := h.ids.CurrentUserID(c.Request().Context())
	if !ok {
		return missingIdentity(c)
	}
	var req movementReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := op(c.Request().Context(), group.MovementInput{
		GroupID:  gp.GroupID,
		MemberID: member,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}
