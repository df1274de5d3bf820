package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPDFOptions(t *testing.T) {
	opts := DefaultPDFOptions()
	assert.Equal(t, "landscape", opts.PageOrientation)
	assert.Equal(t, "A4", opts.PageSize)
	assert.Equal(t, 36, opts.MarginTop)
	assert.Equal(t, 36, opts.MarginBottom)
	assert.Equal(t, 36, opts.MarginLeft)
	assert.Equal(t, 36, opts.MarginRight)
	assert.Equal(t, 30*time.Second, opts.Timeout)
}

func TestPaperInches(t *testing.T) {
	tests := []struct {
		size, orientation string
		w, h              float64
	}{
		{"letter", "portrait", 8.5, 11.0},
		{"legal", "portrait", 8.5, 14.0},
		{"A4", "portrait", 8.27, 11.69},
		{"A4", "landscape", 11.69, 8.27},
		{"", "portrait", 8.5, 11.0},
	}
	for _, tt := range tests {
		w, h := PDFOptions{PageSize: tt.size, PageOrientation: tt.orientation}.paperInches()
		assert.Equal(t, tt.w, w, "%s %s width", tt.size, tt.orientation)
		assert.Equal(t, tt.h, h, "%s %s height", tt.size, tt.orientation)
	}
}

func TestGeneratePDF(t *testing.T) {
	if os.Getenv("CHROME_PATH") == "" {
		t.Skip("CHROME_PATH not set, skipping headless Chrome test")
	}

	pdf, err := GeneratePDF(context.Background(), "<html><body><h1>Dashboard Overview</h1></body></html>", DefaultPDFOptions())
	assert.NoError(t, err)
	if assert.NotEmpty(t, pdf) {
		assert.Equal(t, "%PDF", string(pdf[:4]))
	}
}
