package services

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log"
	"strings"
	texttemplate "text/template"

	"attendance_tracker_go/config"
	"attendance_tracker_go/models"

	"github.com/resend/resend-go/v2"
)

//go:embed emails/*.html emails/*.txt
var emailTemplates embed.FS

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// renderEmail executes emails/<name>.html and emails/<name>.txt with data
func renderEmail(name string, data interface{}) (html string, text string, err error) {
	htmlTmpl, err := htmltemplate.ParseFS(emailTemplates, "emails/"+name+".html")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s.html: %w", name, err)
	}
	var htmlBuf bytes.Buffer
	if err := htmlTmpl.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s.html: %w", name, err)
	}

	textTmpl, err := texttemplate.ParseFS(emailTemplates, "emails/"+name+".txt")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse template %s.txt: %w", name, err)
	}
	var textBuf bytes.Buffer
	if err := textTmpl.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s.txt: %w", name, err)
	}

	return htmlBuf.String(), textBuf.String(), nil
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (test mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if len(email.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// AttendanceSummaryData is the data for the daily summary email
type AttendanceSummaryData struct {
	Day           string
	Stats         DashboardStats
	WeeklyAverage int
	Batches       []models.Batch
	DashboardURL  string
}

// BuildAttendanceSummaryEmail creates the daily summary email for the given snapshot
func BuildAttendanceSummaryEmail(recipients []string, snap DashboardSnapshot, appURL string) (*Email, error) {
	day := snap.GeneratedAt.Format("Monday, January 2, 2006")
	data := AttendanceSummaryData{
		Day:           day,
		Stats:         snap.Stats,
		WeeklyAverage: AverageRate(snap.Trend.TrendData),
		Batches:       snap.Batches,
		DashboardURL:  strings.TrimSuffix(appURL, "/") + "/dashboard",
	}

	html, text, err := renderEmail("attendance_summary", data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       append([]string{}, recipients...),
		Subject:  fmt.Sprintf("Attendance summary: %d%% present (%s)", snap.Stats.AttendanceRate, snap.GeneratedAt.Format("Jan 2")),
		HTMLBody: html,
		TextBody: text,
	}, nil
}
