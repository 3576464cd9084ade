package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/google/uuid"
)

// SMTP sends through an authenticated SMTP account (e.g. Gmail on 465).
type SMTP struct {
	Host     string
	Port     string
	User     string
	Pass     string
	FromName string
}

func NewSMTP(host, port, user, pass, fromName string) *SMTP {
	return &SMTP{Host: host, Port: port, User: user, Pass: pass, FromName: fromName}
}

func (s *SMTP) from() string {
	if s.FromName == "" {
		return s.User
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", s.FromName), s.User)
}

// Send delivers the message; port 465 uses implicit TLS, others STARTTLS via smtp.SendMail.
func (s *SMTP) Send(ctx context.Context, to, subject, text, html string) error {
	msg := buildMessage(s.from(), to, subject, text, html)
	addr := net.JoinHostPort(s.Host, s.Port)
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)

	if s.Port != "465" {
		return smtp.SendMail(addr, auth, s.User, []string{to}, msg)
	}

	d := &tls.Dialer{Config: &tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(s.User); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to, subject, text, html string) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")

	if html == "" {
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(normalizeCRLF(text) + "\r\n")
		return b.Bytes()
	}

	boundary := strings.ReplaceAll(uuid.NewString(), "-", "")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"" + boundary + "\"\r\n\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(normalizeCRLF(text) + "\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(normalizeCRLF(html) + "\r\n")
	b.WriteString("--" + boundary + "--\r\n")
	return b.Bytes()
}

func normalizeCRLF(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}

var _ Sender = (*SMTP)(nil)
