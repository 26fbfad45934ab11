package mail

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"

	"campusdesk/internal/config"
)

// Mailer sends transactional email. Implementations make a single delivery
// attempt; there is no retry or queueing.
type Mailer interface {
	Send(to, subject, body string) error
}

// Fixed development account, mirroring the hardcoded transport the frontend
// team used before SMTP credentials were provisioned per environment.
const (
	devSMTPHost = "smtp.gmail.com"
	devSMTPPort = "587"
	devSMTPUser = "campusdesk.dev@gmail.com"
)

// SMTPMailer delivers mail over SMTP. It is process-wide state: built once at
// startup, stateless afterwards, no teardown needed.
type SMTPMailer struct {
	host   string
	port   string
	auth   smtp.Auth
	from   string
	useTLS bool // implicit TLS (465) instead of STARTTLS
}

// New creates an SMTP mailer for the given transport settings.
func New(host, port, user, pass, from string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		host:   host,
		port:   port,
		auth:   smtp.PlainAuth("", user, pass, host),
		from:   from,
		useTLS: useTLS,
	}
}

// NewFromConfig selects the transport by deployment mode: production reads the
// SMTP_* environment, development falls back to the fixed development account.
// Development without a configured password gets a log-only mailer so the app
// runs without credentials.
func NewFromConfig(cfg *config.Config) Mailer {
	if cfg.IsProduction() {
		return New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.SMTPSecure)
	}
	if cfg.SMTPPass == "" {
		log.Println("mail: no SMTP credentials, using log-only mailer")
		return &LogMailer{}
	}
	user := cfg.SMTPUser
	if user == "" {
		user = devSMTPUser
	}
	return New(devSMTPHost, devSMTPPort, user, cfg.SMTPPass, user, false)
}

// Send delivers a plain-text message in one SMTP round-trip.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body))
	addr := m.host + ":" + m.port

	if m.useTLS {
		return m.sendTLS(addr, to, msg)
	}
	if err := smtp.SendMail(addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// sendTLS handles servers that expect implicit TLS rather than STARTTLS.
func (m *SMTPMailer) sendTLS(addr, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("dial smtp tls: %w", err)
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(m.auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// LogMailer writes mail to the log instead of the network.
type LogMailer struct{}

// Send logs the message and reports success.
func (l *LogMailer) Send(to, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q\n%s", to, subject, body)
	return nil
}
