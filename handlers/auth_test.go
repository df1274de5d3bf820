package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"attendance_tracker_go/middleware"
	"attendance_tracker_go/models"
	"attendance_tracker_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func loginRequest(email, password string) (echo.Context, *httptest.ResponseRecorder) {
	form := url.Values{"email": {email}, "password": {password}}
	_, c, rec := setupEcho(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	c.Request().Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return c, rec
}

func TestLoginHandler(t *testing.T) {
	setupTestDB(t)
	_, c, rec := setupEcho(http.MethodGet, "/login", nil)

	assert.NoError(t, LoginHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-testid="heading-login"`)
}

func TestLoginPostHandler(t *testing.T) {
	database := setupTestDB(t)
	hash, err := services.HashPassword("correct-horse")
	assert.NoError(t, err)
	user := models.User{Name: "Test Teacher", Email: "teacher@example.com", Password: hash, Role: models.RoleTeacher, IsActive: true}
	assert.NoError(t, database.Create(&user).Error)

	t.Run("Success", func(t *testing.T) {
		c, rec := loginRequest("Teacher@Example.com", "correct-horse")

		assert.NoError(t, LoginPostHandler(c))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), middleware.SessionCookieName+"=")

		var sessions int64
		database.Model(&models.Session{}).Where("user_id = ?", user.ID).Count(&sessions)
		assert.Equal(t, int64(1), sessions)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		c, rec := loginRequest("teacher@example.com", "wrong")

		assert.NoError(t, LoginPostHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid email or password")
	})

	t.Run("MissingFields", func(t *testing.T) {
		c, rec := loginRequest("", "")

		assert.NoError(t, LoginPostHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email and password are required")
	})
}

func TestLogoutHandler(t *testing.T) {
	database := setupTestDB(t)
	user := models.User{Name: "Test Teacher", Email: "teacher@example.com", Password: "x", IsActive: true}
	assert.NoError(t, database.Create(&user).Error)
	session, err := services.CreateSession(database, user.ID, "127.0.0.1", "test")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: session.Token})

	assert.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	_, err = services.ValidateSession(database, session.Token)
	assert.Error(t, err)
}
