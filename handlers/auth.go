package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"attendance_tracker_go/db"
	"attendance_tracker_go/middleware"
	"attendance_tracker_go/services"
	"attendance_tracker_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// LoginHandler renders the login page
func LoginHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if _, err := services.ValidateSession(db.DB, cookie.Value); err == nil {
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
	}
	return render(c, http.StatusOK, pages.Login(middleware.GetCSRFToken(c), "", ""))
}

// LoginPostHandler handles the login form submission
func LoginPostHandler(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	csrfToken := middleware.GetCSRFToken(c)

	if email == "" || password == "" {
		return render(c, http.StatusBadRequest, pages.Login(csrfToken, email, "Email and password are required"))
	}

	user, err := services.Authenticate(db.DB, email, password)
	if err != nil {
		message := "Invalid email or password"
		status := http.StatusUnauthorized
		switch {
		case errors.Is(err, services.ErrAccountLocked):
			message = "Account is locked. Try again later."
			status = http.StatusTooManyRequests
		case errors.Is(err, services.ErrAccountInactive):
			message = "Your account has been deactivated"
			status = http.StatusForbidden
		case !errors.Is(err, services.ErrInvalidCredentials):
			log.Printf("[ERROR] Login failed: %v", err)
			message = "Something went wrong. Please try again."
			status = http.StatusInternalServerError
		}
		services.LogSecurityEvent("LOGIN_FAILED", "", "email: "+email)
		return render(c, status, pages.Login(csrfToken, email, message))
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		log.Printf("[ERROR] Failed to create session: %v", err)
		return render(c, http.StatusInternalServerError, pages.Login(csrfToken, email, "Something went wrong. Please try again."))
	}

	middleware.SetSessionCookie(c, session)
	services.LogSecurityEvent("LOGIN_SUCCESS", user.ID, "ip: "+c.RealIP())

	if isHTMX(c) {
		c.Response().Header().Set("HX-Redirect", "/dashboard")
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// LogoutHandler handles user logout
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := services.DeleteSession(db.DB, cookie.Value); err != nil {
			log.Printf("[WARNING] Failed to delete session: %v", err)
		}
	}
	if user := middleware.GetCurrentUser(c); user != nil {
		services.LogSecurityEvent("LOGOUT", user.ID, "")
	}

	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}
