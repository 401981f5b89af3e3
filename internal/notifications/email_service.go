package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/beambyp/EventBud/internal/shared/config"
	"github.com/beambyp/EventBud/pkg/logger"
)

// EmailService interface for sending ticket emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *TicketNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

type smtpEmailService struct {
	config    *SMTPConfig
	templates map[NotificationType]*template.Template
	log       *logger.Logger
}

func NewSMTPEmailService(cfg *SMTPConfig, log *logger.Logger) (EmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	service := &smtpEmailService{
		config:    cfg,
		templates: make(map[NotificationType]*template.Template),
		log:       log,
	}
	if err := service.loadTemplates(); err != nil {
		return nil, err
	}
	return service, nil
}

func validateSMTPConfig(cfg *SMTPConfig) error {
	if cfg == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if cfg.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *smtpEmailService) SendNotification(ctx context.Context, notification *TicketNotification) error {
	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no email template for notification type %s", notification.Type)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, notification); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := subjectFor(notification)
	if err := s.send(ctx, notification.RecipientEmail, subject, body.String()); err != nil {
		return err
	}

	s.log.InfoWithContext(ctx, "Ticket email sent", map[string]interface{}{
		"type":      string(notification.Type),
		"recipient": notification.RecipientEmail,
		"ticket_id": notification.TicketID,
	})
	return nil
}

func subjectFor(notification *TicketNotification) string {
	switch notification.Type {
	case NotificationTypeTicketIssued:
		return fmt.Sprintf("Your ticket for %s is confirmed", notification.EventName)
	case NotificationTypeTicketScanned:
		return fmt.Sprintf("Welcome to %s", notification.EventName)
	case NotificationTypeTicketTransferred:
		return fmt.Sprintf("A ticket for %s has been transferred to you", notification.EventName)
	case NotificationTypeTicketExpired:
		return fmt.Sprintf("Your ticket for %s has expired", notification.EventName)
	default:
		return "EventBud ticket update"
	}
}

func (s *smtpEmailService) send(ctx context.Context, to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var headers strings.Builder
	headers.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail))
	headers.WriteString(fmt.Sprintf("To: %s\r\n", to))
	headers.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	headers.WriteString("MIME-Version: 1.0\r\n")
	headers.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	headers.WriteString("\r\n")
	message := []byte(headers.String() + htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- s.deliver(addr, to, message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", to, err)
		}
		return nil
	case <-time.After(s.config.Timeout):
		return fmt.Errorf("timed out sending email to %s", to)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *smtpEmailService) deliver(addr, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.config.UseTLS {
		tlsConfig := &tls.Config{ServerName: s.config.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return err
		}
	}

	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.config.FromEmail); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := writer.Write(message); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (s *smtpEmailService) loadTemplates() error {
	sources := map[NotificationType]string{
		NotificationTypeTicketIssued: `
<h2>Hi {{.RecipientName}},</h2>
<p>Your ticket for <strong>{{.EventName}}</strong> is confirmed.</p>
<ul>
  <li>Ticket ID: {{.TicketID}}</li>
  <li>Zone: {{.ClassName}}</li>
  {{if .SeatNo}}<li>Seat: {{.SeatNo}}</li>{{end}}
  {{if .Location}}<li>Location: {{.Location}}</li>{{end}}
</ul>
<p>Show the ticket ID at the gate. See you there!</p>`,
		NotificationTypeTicketScanned: `
<h2>Hi {{.RecipientName}},</h2>
<p>Your ticket <strong>{{.TicketID}}</strong> was scanned at the entrance of {{.EventName}}.</p>
<p>If this was not you, contact the event organizer immediately.</p>`,
		NotificationTypeTicketTransferred: `
<h2>Hi {{.RecipientName}},</h2>
<p>A ticket for <strong>{{.EventName}}</strong> has been transferred to your account.</p>
<ul>
  <li>Ticket ID: {{.TicketID}}</li>
  <li>Zone: {{.ClassName}}</li>
  {{if .SeatNo}}<li>Seat: {{.SeatNo}}</li>{{end}}
</ul>`,
		NotificationTypeTicketExpired: `
<h2>Hi {{.RecipientName}},</h2>
<p>Your ticket <strong>{{.TicketID}}</strong> for {{.EventName}} has expired and can no longer be used.</p>`,
	}

	for notType, src := range sources {
		tmpl, err := template.New(string(notType)).Parse(src)
		if err != nil {
			return fmt.Errorf("failed to parse %s template: %w", notType, err)
		}
		s.templates[notType] = tmpl
	}
	return nil
}
