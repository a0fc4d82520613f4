// Package mailer relays contact requests to the site owner over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/garnizeh/weboff/internal/config"
)

var ErrNotConfigured = errors.New("mailer: smtp relay is not configured")

// Message is a plain-text mail addressed to the configured recipient.
type Message struct {
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers a message. Implementations make exactly one attempt.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the mailer package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// ContactMessage formats an inquiry the way the owner receives it.
func ContactMessage(name, email, message string) Message {
	body := strings.Join([]string{
		"Name: " + name,
		"Email: " + email,
		"",
		"Message:",
		message,
	}, "\n")

	return Message{
		ReplyTo: email,
		Subject: "New contact request from " + name,
		Body:    body,
	}
}

type SMTPSender struct {
	cfg     config.SMTPConfig
	timeout time.Duration
}

// NewSMTPSender returns ErrNotConfigured unless host, credentials, sender and recipient are set.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	return &SMTPSender{cfg: cfg, timeout: 15 * time.Second}, nil
}

func (s *SMTPSender) buildMsg(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(s.cfg.Recipient); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return nil, fmt.Errorf("set reply-to: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)
	return msg, nil
}

func (s *SMTPSender) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTimeout(s.timeout),
	}
	// 465 is implicit TLS; everything else upgrades with STARTTLS when offered
	if s.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := s.buildMsg(m)
	if err != nil {
		return err
	}
	c, err := s.client()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	start := time.Now()
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		logger.Error("mailer: send failed", slog.String("host", s.cfg.Host), slog.Any("err", err))
		return fmt.Errorf("send mail: %w", err)
	}
	logger.Info("mailer: message sent", slog.String("subject", m.Subject), slog.Duration("took", time.Since(start)))
	return nil
}
