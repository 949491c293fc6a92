package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"claims_backoffice/config"
	"claims_backoffice/models"
	"claims_backoffice/services/i18n"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email through Resend, or logs it when EMAIL_TEST_MODE is on
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.HTMLBody == "" && email.TextBody == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	client := resend.NewClient(cfg.ResendAPIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("[INFO] Email sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// SLAReminderData feeds the SLA reminder email
type SLAReminderData struct {
	RecipientName string
	ActivityTitle string
	ClaimNumber   string
	DueDate       string
	State         string
	DaysRemaining int
	ActivityURL   string
}

var slaReminderHTML = template.Must(template.New("sla_reminder").Parse(`<p>{{.Greeting}}</p>
<p>{{.Intro}}</p>
<table>
  <tr><td><strong>{{.TitleLabel}}</strong></td><td>{{.Data.ActivityTitle}}</td></tr>
  <tr><td><strong>{{.ClaimLabel}}</strong></td><td>{{.Data.ClaimNumber}}</td></tr>
  <tr><td><strong>{{.DueLabel}}</strong></td><td>{{.Data.DueDate}}</td></tr>
</table>
<p><a href="{{.Data.ActivityURL}}">{{.CTA}}</a></p>
`))

// BuildSLAReminderEmail creates the reminder for an at-risk or overdue activity
// in the recipient's language
func BuildSLAReminderEmail(toEmail, lang string, data SLAReminderData) (*Email, error) {
	ctx := i18n.WithLocale(context.Background(), lang)

	stateLabel := i18n.Label(ctx, "sla", data.State, models.GetSLADisplayName(data.State))
	days := data.DaysRemaining
	introKey := "email.sla_reminder.at_risk"
	if data.State == models.SLAOverdue {
		introKey = "email.sla_reminder.overdue"
		days = -days
	}

	view := struct {
		Data       SLAReminderData
		Greeting   string
		Intro      string
		TitleLabel string
		ClaimLabel string
		DueLabel   string
		CTA        string
	}{
		Data:       data,
		Greeting:   i18n.T(ctx, "email.sla_reminder.greeting", map[string]interface{}{"name": data.RecipientName}),
		Intro:      i18n.T(ctx, introKey, map[string]interface{}{"days": days}),
		TitleLabel: i18n.T(ctx, "activities.activity_title"),
		ClaimLabel: i18n.T(ctx, "email.sla_reminder.claim"),
		DueLabel:   i18n.T(ctx, "email.sla_reminder.due"),
		CTA:        i18n.T(ctx, "email.sla_reminder.cta"),
	}

	var buf bytes.Buffer
	if err := slaReminderHTML.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render reminder email: %w", err)
	}

	text := strings.Join([]string{
		view.Greeting,
		"",
		view.Intro,
		"",
		view.TitleLabel + ": " + data.ActivityTitle,
		view.ClaimLabel + ": " + data.ClaimNumber,
		view.DueLabel + ": " + data.DueDate,
		"",
		view.CTA + ": " + data.ActivityURL,
	}, "\n")

	return &Email{
		To: []string{toEmail},
		Subject: i18n.T(ctx, "email.sla_reminder.subject", map[string]interface{}{
			"state": stateLabel,
			"title": data.ActivityTitle,
		}),
		HTMLBody: buf.String(),
		TextBody: text,
	}, nil
}
