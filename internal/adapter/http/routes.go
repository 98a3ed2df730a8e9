package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts every endpoint of the API on e.
func RegisterRoutes(e *echo.Echo, h *Handler, groups *GroupHandler, loans *LoanHandler) {
	e.GET("/health", h.Health)

	e.POST("/groups", groups.CreateGroup)
	e.GET("/groups/:group_id", groups.GetGroup)
	e.GET("/groups/:group_id/entries", groups.ListEntries)
	e.POST("/groups/:group_id/deposits", groups.Deposit)
	e.POST("/groups/:group_id/withdrawals", groups.Withdraw)

	e.POST("/groups/:group_id/loans", loans.CreateLoan)
	e.GET("/groups/:group_id/loans", loans.ListLoans)
	e.GET("/loans/:loan_id", loans.GetLoan)
	e.POST("/loans/:loan_id/votes", loans.CastVote)
	e.POST("/loans/:loan_id/close", loans.CloseLoan)
	e.POST("/loans/:loan_id/payments", loans.RegisterPayment)
	e.GET("/loans/:loan_id/payments", loans.ListPayments)
}
