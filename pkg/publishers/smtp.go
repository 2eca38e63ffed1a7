package publishers

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// SMTPPublisher delivers the rendered digest as an HTML email.
type SMTPPublisher struct {
	id   string
	cfg  SMTPPublisherConfig
	pass string
	log  Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPPublisher creates an email publisher from config. The account
// password comes from the environment variable named by password_env.
func NewSMTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SMTP == nil {
		return nil, fmt.Errorf("publisher %q missing smtp configuration", cfg.ID)
	}

	pass := ""
	if cfg.SMTP.PasswordEnv != "" {
		pass = os.Getenv(cfg.SMTP.PasswordEnv)
		if pass == "" {
			return nil, fmt.Errorf("environment variable %s is not set", cfg.SMTP.PasswordEnv)
		}
	}

	return &SMTPPublisher{
		id:   cfg.ID,
		cfg:  *cfg.SMTP,
		pass: pass,
		log:  ensureLogger(log),
		send: smtp.SendMail,
	}, nil
}

func (p *SMTPPublisher) ID() string   { return p.id }
func (p *SMTPPublisher) Type() string { return TypeSMTP }

// Publish sends the digest HTML to all configured recipients.
func (p *SMTPPublisher) Publish(ctx context.Context, evt Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)
	var auth smtp.Auth
	if p.cfg.Username != "" {
		auth = smtp.PlainAuth("", p.cfg.Username, p.pass, p.cfg.Host)
	}

	msg := buildMailMessage(p.cfg.From, p.cfg.To, evt.Subject, evt.HTML)
	if err := p.send(addr, auth, p.cfg.From, p.cfg.To, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}

	p.log.InfoObj("email sent", "recipients", len(p.cfg.To))
	return nil
}

func buildMailMessage(from string, to []string, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
