// Package mailer delivers relayed contact messages over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when SMTP credentials are missing.
var ErrNotConfigured = errors.New("SMTP credentials not configured")

// Envelope is one contact message addressed to the site owner.
type Envelope struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// Mailer sends an Envelope.
//
//go:generate mockgen -package mockmailer -source=mailer.go -destination=mock/mockmailer.go
type Mailer interface {
	Send(ctx context.Context, env Envelope) error
}

// Options configures SMTPMailer.
type Options struct {
	Host string
	Port int
	User string
	Pass string
	// To receives the messages. Defaults to User.
	To string
	// Timeout bounds a send whose context has no deadline. Zero means
	// defaultTimeout.
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

// SMTPMailer sends through an authenticated SMTP server, upgrading with
// STARTTLS when the server offers it.
type SMTPMailer struct {
	opts Options
	now  func() time.Time
}

func NewSMTPMailer(opts Options) *SMTPMailer {
	if opts.To == "" {
		opts.To = opts.User
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &SMTPMailer{opts: opts, now: time.Now}
}

// Configured reports whether credentials are present.
func (m *SMTPMailer) Configured() bool {
	return m.opts.User != "" && m.opts.Pass != ""
}

func (m *SMTPMailer) Send(ctx context.Context, env Envelope) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.Timeout)
		defer cancel()
	}

	addr := net.JoinHostPort(m.opts.Host, strconv.Itoa(m.opts.Port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("could not dial smtp: %w", err)
	}
	deadline, _ := ctx.Deadline()
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, m.opts.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("could not start smtp session: %w", err)
	}
	defer func() {
		_ = c.Close()
	}()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.opts.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("could not starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(smtp.PlainAuth("", m.opts.User, m.opts.Pass, m.opts.Host)); err != nil {
			return fmt.Errorf("could not authenticate: %w", err)
		}
	}
	if err := c.Mail(m.opts.User); err != nil {
		return fmt.Errorf("could not set sender: %w", err)
	}
	if err := c.Rcpt(m.opts.To); err != nil {
		return fmt.Errorf("could not set recipient: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("could not open data: %w", err)
	}
	if _, err := w.Write(Compose(m.opts.User, m.opts.To, env, m.now())); err != nil {
		return fmt.Errorf("could not write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("could not send message: %w", err)
	}

	return c.Quit()
}

// Compose renders the RFC 5322 message. Header values are stripped of line
// breaks so visitor input cannot inject headers.
func Compose(from, to string, env Envelope, at time.Time) []byte {
	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(oneLine(v))
		b.WriteString("\r\n")
	}

	header("From", from)
	header("To", to)
	header("Reply-To", env.Email)
	header("Subject", "Portfolio Contact: "+env.Subject)
	header("Date", at.Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="utf-8"`)
	b.WriteString("\r\n")

	body := fmt.Sprintf("New contact form submission from your portfolio:\n\n"+
		"Name: %s\nEmail: %s\nSubject: %s\nMessage:\n%s\n\n---\nSent from your portfolio contact form\n",
		oneLine(env.Name), oneLine(env.Email), oneLine(env.Subject), env.Body)
	b.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))

	return []byte(b.String())
}

func oneLine(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}
