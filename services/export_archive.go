package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"attendance_tracker_go/models"

	"gorm.io/gorm"
)

// ArchivedExportURLExpiry is how long a signed download link stays valid
const ArchivedExportURLExpiry = 15 * time.Minute

var ErrExportNotFound = errors.New("archived export not found")

// ArchiveDashboardExport stores an export and records it so it can be
// downloaded again until the retention sweep removes it
func ArchiveDashboardExport(ctx context.Context, db *gorm.DB, provider StorageProvider, content []byte, ext, contentType string, at time.Time, createdBy string) (*models.ExportArchive, error) {
	result, err := ArchiveExport(ctx, provider, content, ext, contentType, at)
	if err != nil {
		return nil, err
	}

	archive := &models.ExportArchive{
		StorageKey:  result.Key,
		Format:      ext,
		ContentType: contentType,
		FileName:    ExportFileName(ext, at),
		FileSize:    result.FileSize,
		CreatedBy:   ptrIfNotEmpty(createdBy),
	}
	if err := db.WithContext(ctx).Create(archive).Error; err != nil {
		// Don't leave an object nothing points at
		if delErr := provider.Delete(ctx, result.Key); delErr != nil {
			log.Printf("[WARNING] Failed to remove unrecorded export %s: %v", result.Key, delErr)
		}
		return nil, fmt.Errorf("failed to record export: %w", err)
	}
	return archive, nil
}

// ArchivedExport is a stored export ready to hand to a client: either a URL
// to redirect to or a body to stream
type ArchivedExport struct {
	Archive     models.ExportArchive
	URL         string
	Body        io.ReadCloser
	ContentType string
}

// OpenArchivedExport looks up an archived export by storage key. Providers
// that can sign absolute URLs (R2) return a URL; local storage returns a body.
func OpenArchivedExport(ctx context.Context, db *gorm.DB, provider StorageProvider, key string) (*ArchivedExport, error) {
	if provider == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	var archive models.ExportArchive
	if err := db.WithContext(ctx).Where("storage_key = ?", key).First(&archive).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExportNotFound
		}
		return nil, fmt.Errorf("failed to find export: %w", err)
	}

	out := &ArchivedExport{Archive: archive}
	url, err := provider.GetSignedURL(ctx, key, ArchivedExportURLExpiry)
	if err == nil && (strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")) {
		out.URL = url
		return out, nil
	}

	body, contentType, err := provider.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	out.Body = body
	out.ContentType = contentType
	return out, nil
}

// PurgeExpiredExports deletes exports archived before cutoff from storage and
// the database. A storage failure keeps the record for the next sweep.
func PurgeExpiredExports(ctx context.Context, db *gorm.DB, provider StorageProvider, cutoff time.Time) (int, error) {
	if provider == nil {
		return 0, nil
	}

	var expired []models.ExportArchive
	if err := db.WithContext(ctx).Where("created_at < ?", cutoff).Find(&expired).Error; err != nil {
		return 0, fmt.Errorf("failed to list expired exports: %w", err)
	}

	purged := 0
	for _, archive := range expired {
		if err := provider.Delete(ctx, archive.StorageKey); err != nil {
			log.Printf("[WARNING] Failed to delete export %s: %v", archive.StorageKey, err)
			continue
		}
		if err := db.WithContext(ctx).Delete(&archive).Error; err != nil {
			return purged, fmt.Errorf("failed to delete export record: %w", err)
		}
		purged++
	}
	return purged, nil
}
