package handlers

import (
	"log"
	"net/http"

	"attendance_tracker_go/middleware"
	"attendance_tracker_go/services"
	"attendance_tracker_go/templates/pages"
	"attendance_tracker_go/templates/partials"

	"github.com/labstack/echo/v4"
)

// RootHandler sends visitors to the dashboard
func RootHandler(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// DashboardHandler renders the main dashboard. Data that fails to load is
// shown as empty rather than as an error.
func DashboardHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	csrfToken := middleware.GetCSRFToken(c)

	snap := services.Dashboard.Load(c.Request().Context())
	vm := pages.NewDashboardViewModel(user, csrfToken, snap)
	return render(c, http.StatusOK, pages.Dashboard(vm))
}

// BatchOverviewHTMX returns the batch overview card, listing every batch when all=1
func BatchOverviewHTMX(c echo.Context) error {
	batches, err := services.Dashboard.Batches(c.Request().Context())
	if err != nil {
		log.Printf("[WARNING] Batch overview unavailable: %v", err)
		batches = nil
	}
	view := pages.NewBatchOverview(batches, c.QueryParam("all") == "1")
	return render(c, http.StatusOK, partials.BatchOverview(view))
}
