package infra

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/Martin-Comito/alambrados/internal/config"

	"github.com/jordan-wright/email"
)

// Adjunto is an in-memory attachment.
type Adjunto struct {
	Nombre string
	Datos  []byte
}

// Mailer wraps SMTP configuration for sending documents to customers. Sends
// go through a circuit breaker so a dead SMTP server fails fast.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config, cb *CircuitBreaker) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       cb,
	}
}

// Habilitado reports whether an SMTP host is configured.
func (m *Mailer) Habilitado() bool { return m != nil && m.host != "" }

// Enviar sends a plain text email with optional attachments.
func (m *Mailer) Enviar(to, subject, body string, adjuntos ...Adjunto) error {
	if !m.Habilitado() {
		return fmt.Errorf("mailer: SMTP no configurado")
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, a := range adjuntos {
		if _, err := e.Attach(bytes.NewReader(a.Datos), a.Nombre, "application/pdf"); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", a.Nombre, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	send := func() error { return e.Send(m.addr, auth) }
	if m.cb == nil {
		return send()
	}
	return m.cb.Execute(send)
}
