package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance_tracker_go/models"
	"attendance_tracker_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestAuditContext(t *testing.T) {
	e := echo.New()

	t.Run("Captures user and request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/batches", nil)
		req.Header.Set("User-Agent", "scanner/1.0")
		req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set(ContextKeyUser, &models.User{ID: "u1", Name: "Grace Hopper", Role: models.RoleAdmin})

		var got services.AuditContext
		handler := AuditContext()(func(c echo.Context) error {
			got = GetAuditContext(c)
			return nil
		})
		assert.NoError(t, handler(c))
		assert.Equal(t, services.AuditContext{
			UserID:    "u1",
			UserName:  "Grace Hopper",
			UserRole:  models.RoleAdmin,
			IPAddress: "10.0.0.7",
			UserAgent: "scanner/1.0",
		}, got)
	})

	t.Run("Built on demand without middleware", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		got := GetAuditContext(c)
		assert.Empty(t, got.UserID)
		assert.Equal(t, "192.0.2.1", got.IPAddress)
	})
}
