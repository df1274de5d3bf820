package handlers

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"attendance_tracker_go/db"
	"attendance_tracker_go/middleware"
	"attendance_tracker_go/services"
	"attendance_tracker_go/templates/pages"

	"github.com/labstack/echo/v4"
)

// ExportXLSXHandler downloads the current dashboard as an Excel workbook
func ExportXLSXHandler(c echo.Context) error {
	snap := services.Dashboard.Load(c.Request().Context())

	buf, err := services.BuildDashboardWorkbook(snap)
	if err != nil {
		log.Printf("[ERROR] Failed to build dashboard workbook: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export dashboard")
	}

	return sendExport(c, buf.Bytes(), "xlsx", services.ExcelContentType, snap.GeneratedAt)
}

// ExportPDFHandler renders the dashboard page and prints it to PDF
func ExportPDFHandler(c echo.Context) error {
	ctx := c.Request().Context()
	snap := services.Dashboard.Load(ctx)
	vm := pages.NewDashboardViewModel(middleware.GetCurrentUser(c), "", snap)

	var html bytes.Buffer
	if err := pages.Dashboard(vm).Render(ctx, &html); err != nil {
		log.Printf("[ERROR] Failed to render dashboard for PDF: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export dashboard")
	}

	pdf, err := services.GeneratePDF(ctx, html.String(), services.DefaultPDFOptions())
	if err != nil {
		log.Printf("[ERROR] Failed to generate dashboard PDF: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export dashboard")
	}

	return sendExport(c, pdf, "pdf", services.PDFContentType, snap.GeneratedAt)
}

// sendExport streams an export as a download. With archive=1 a copy is kept
// in storage first; a failed archive does not block the download.
func sendExport(c echo.Context, content []byte, ext, contentType string, at time.Time) error {
	if c.QueryParam("archive") == "1" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
		defer cancel()

		userID := ""
		if user := middleware.GetCurrentUser(c); user != nil {
			userID = user.ID
		}
		archive, err := services.ArchiveDashboardExport(ctx, db.DB, services.Storage, content, ext, contentType, at, userID)
		if err != nil {
			log.Printf("[WARNING] Failed to archive dashboard export: %v", err)
		} else {
			c.Response().Header().Set("X-Export-Key", archive.StorageKey)
			log.Printf("[INFO] Archived dashboard export %s (%d bytes)", archive.StorageKey, archive.FileSize)
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+services.ExportFileName(ext, at)+`"`)
	return c.Blob(http.StatusOK, contentType, content)
}

// ArchivedExportHandler downloads an export kept with archive=1, by the key
// returned in X-Export-Key
func ArchivedExportHandler(c echo.Context) error {
	key := c.Param("*")
	if key == "" {
		return echo.NewHTTPError(http.StatusNotFound, "Export not found")
	}

	export, err := services.OpenArchivedExport(c.Request().Context(), db.DB, services.Storage, key)
	if err != nil {
		if errors.Is(err, services.ErrExportNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Export not found")
		}
		log.Printf("[ERROR] Failed to open archived export %s: %v", key, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to download export")
	}

	if export.URL != "" {
		return c.Redirect(http.StatusTemporaryRedirect, export.URL)
	}
	defer export.Body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.Archive.FileName+`"`)
	return c.Stream(http.StatusOK, export.ContentType, export.Body)
}
