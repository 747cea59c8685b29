package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/petrotech/siteapi/internal/model"
)

// MailerConfig holds the SMTP settings for outbound notification mail.
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string // admin notification recipient
}

// Mailer sends the admin a notification email for each contact submission.
// When SMTP credentials are not configured the mailer is disabled and Send
// becomes a no-op, so a missing mail setup never breaks form submission.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
	logger *slog.Logger
}

// NewMailer builds a Mailer from config. Returns a disabled mailer when
// credentials are absent.
func NewMailer(cfg MailerConfig, logger *slog.Logger) (*Mailer, error) {
	if cfg.Username == "" || cfg.Password == "" {
		logger.Warn("email credentials not configured, notifications disabled")
		return &Mailer{logger: logger}, nil
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{
		client: client,
		from:   from,
		to:     cfg.To,
		logger: logger,
	}, nil
}

// Enabled reports whether the mailer has a configured transport.
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// SendContactNotification emails the configured admin address about a new
// contact submission. Callers treat failures as best-effort.
func (m *Mailer) SendContactNotification(ctx context.Context, contact *model.Contact) error {
	if !m.Enabled() {
		m.logger.Debug("contact notification skipped, mailer disabled")
		return nil
	}

	body, err := RenderContactNotification(contact)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject("New Contact Form Submission - PetroTech Solutions")
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

var contactTemplate = template.Must(template.New("contact").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1e40af; border-bottom: 2px solid #1e40af; padding-bottom: 10px;">
    New Contact Form Submission
  </h2>
  <div style="background-color: #f8fafc; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #374151; margin-top: 0;">Contact Details:</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Date:</strong> {{.Date}}</p>
  </div>
  <div style="background-color: #ffffff; padding: 20px; border: 1px solid #e5e7eb; border-radius: 8px;">
    <h3 style="color: #374151; margin-top: 0;">Message:</h3>
    <p style="line-height: 1.6; color: #4b5563;">{{.Message}}</p>
  </div>
  <div style="margin-top: 20px; padding: 15px; background-color: #fef3c7; border-radius: 8px;">
    <p style="margin: 0; color: #92400e;">
      <strong>Note:</strong> Please respond to this inquiry within 24 hours for the best customer experience.
    </p>
  </div>
</div>`))

// RenderContactNotification renders the HTML notification body for a contact
// submission. Exported for template tests.
func RenderContactNotification(contact *model.Contact) (string, error) {
	var buf bytes.Buffer
	err := contactTemplate.Execute(&buf, struct {
		Name    string
		Email   string
		Message string
		Date    string
	}{
		Name:    contact.Name,
		Email:   contact.Email,
		Message: contact.Message,
		Date:    time.Now().Format(time.RFC1123),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
