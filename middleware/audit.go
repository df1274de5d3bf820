package middleware

import (
	"attendance_tracker_go/services"

	"github.com/labstack/echo/v4"
)

const ContextKeyAuditContext = "audit_context"

// AuditContext records who is making the request for audit logging.
// It must run after RequireAuth.
func AuditContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyAuditContext, buildAuditContext(c))
			return next(c)
		}
	}
}

// GetAuditContext returns the request's audit context, building it when the
// middleware did not run
func GetAuditContext(c echo.Context) services.AuditContext {
	if ctx, ok := c.Get(ContextKeyAuditContext).(services.AuditContext); ok {
		return ctx
	}
	return buildAuditContext(c)
}

func buildAuditContext(c echo.Context) services.AuditContext {
	ctx := services.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if user := GetCurrentUser(c); user != nil {
		ctx.UserID = user.ID
		ctx.UserName = user.Name
		ctx.UserRole = user.Role
	}
	return ctx
}
