package middleware

import (
	"strings"

	"savings-group-backend/internal/domain/identity"
	"savings-group-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

// HeaderMemberID carries the authenticated member id set by the gateway.
const HeaderMemberID = "Ax-Member-Id"

// Identity copies a well-formed Ax-Member-Id into the request context so
// identity.ContextProvider can resolve the caller. Malformed ids are ignored.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			memberID := strings.TrimSpace(c.Request().Header.Get(HeaderMemberID))
			if memberID != "" && id.IsMemberID(memberID) {
				req := c.Request()
				c.SetRequest(req.WithContext(identity.WithUserID(req.Context(), memberID)))
			}
			return next(c)
		}
	}
}
