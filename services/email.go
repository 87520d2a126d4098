package services

import (
	"fmt"
	"log"
	"strings"

	"courtflow_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	// Create Resend client
	client := resend.NewClient(cfg.ResendAPIKey)

	// Build the from address
	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	// Validate we have at least one body
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email asynchronously using a goroutine
// This is the recommended method in handlers to avoid blocking HTTP responses.
// Send failures are logged and never surfaced; email is a best-effort channel.
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Create a copy of the email to avoid race conditions
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// BuildCaseAssignedEmail creates the email sent to the client when a judge is
// assigned to their case
func BuildCaseAssignedEmail(appURL, clientEmail, clientName, judgeName, caseNumber, caseID string) *Email {
	link := fmt.Sprintf("%s/cases/%s", appURL, caseID)
	return &Email{
		To:      []string{clientEmail},
		Subject: fmt.Sprintf("A judge has been assigned to your case %s", caseNumber),
		HTMLBody: fmt.Sprintf(
			`<p>Hello %s,</p><p>Judge %s has been assigned to your case <strong>%s</strong>. The case is now in progress.</p><p><a href="%s">View your case</a></p>`,
			clientName, judgeName, caseNumber, link),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nJudge %s has been assigned to your case %s. The case is now in progress.\n\nView your case: %s\n",
			clientName, judgeName, caseNumber, link),
	}
}

// BuildCaseClosedEmail creates the email sent to the client when their case is closed
func BuildCaseClosedEmail(appURL, clientEmail, clientName, caseNumber, caseID string) *Email {
	link := fmt.Sprintf("%s/cases/%s", appURL, caseID)
	return &Email{
		To:      []string{clientEmail},
		Subject: fmt.Sprintf("Your case %s has been closed", caseNumber),
		HTMLBody: fmt.Sprintf(
			`<p>Hello %s,</p><p>Your case <strong>%s</strong> has been closed. No further changes can be made to it.</p><p><a href="%s">View the case record</a></p>`,
			clientName, caseNumber, link),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour case %s has been closed. No further changes can be made to it.\n\nView the case record: %s\n",
			clientName, caseNumber, link),
	}
}

// BuildHearingScheduledEmail creates the email sent to the client when a
// hearing is scheduled on their case
func BuildHearingScheduledEmail(appURL, clientEmail, clientName, caseNumber, caseID, when, location string) *Email {
	link := fmt.Sprintf("%s/cases/%s", appURL, caseID)
	where := location
	if where == "" {
		where = "the assigned court"
	}
	return &Email{
		To:      []string{clientEmail},
		Subject: fmt.Sprintf("Hearing scheduled for case %s", caseNumber),
		HTMLBody: fmt.Sprintf(
			`<p>Hello %s,</p><p>A hearing for your case <strong>%s</strong> has been scheduled on %s at %s.</p><p><a href="%s">View your case</a></p>`,
			clientName, caseNumber, when, where, link),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nA hearing for your case %s has been scheduled on %s at %s.\n\nView your case: %s\n",
			clientName, caseNumber, when, where, link),
	}
}

// BuildPasswordResetEmail creates the password reset email
func BuildPasswordResetEmail(appURL, userEmail, userName, token string) *Email {
	link := fmt.Sprintf("%s/reset-password?token=%s", appURL, token)
	return &Email{
		To:      []string{userEmail},
		Subject: "Reset your password",
		HTMLBody: fmt.Sprintf(
			`<p>Hello %s,</p><p>We received a request to reset your password. This link expires in one hour.</p><p><a href="%s">Reset password</a></p><p>If you did not request this, you can ignore this email.</p>`,
			userName, link),
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nWe received a request to reset your password. This link expires in one hour.\n\nReset password: %s\n\nIf you did not request this, you can ignore this email.\n",
			userName, link),
	}
}
