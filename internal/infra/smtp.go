package infra

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/dmbruno/Ananda/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for the transactional emails (password
// reset, password changed). Sends run through a circuit breaker so a dead
// mail server fast-fails instead of blocking every worker goroutine.
type Mailer struct {
	host     string
	port     int
	user     string
	password string
	fromName string
	addr     string
	cb       *CircuitBreaker
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		fromName: cfg.EmailFromName,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		cb:       NewCircuitBreaker(DefaultCBConfig()),
	}
}

// Send delivers an HTML email through the circuit breaker.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.fromName, m.user)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	return m.cb.Execute(func() error {
		return e.Send(m.addr, auth)
	})
}

// SendPasswordReset sends the recovery link. The link is valid for one hour.
func (m *Mailer) SendPasswordReset(to, resetURL, userName string) error {
	greeting := "Hola"
	if userName != "" {
		greeting = "Hola, " + userName
	}
	body := fmt.Sprintf(`<html><body>
<h2>%s - Recuperación de Contraseña</h2>
<p>%s,</p>
<p>Recibimos una solicitud para restablecer la contraseña de tu cuenta.</p>
<p><a href="%s">Restablecer mi contraseña</a></p>
<p>Si el enlace no funciona, copiá esta dirección: %s</p>
<p><strong>Importante:</strong> este enlace es válido por 1 hora.</p>
<p>Si no solicitaste el cambio, ignorá este mensaje.</p>
</body></html>`, m.fromName, greeting, resetURL, resetURL)

	return m.Send(to, "Recuperación de Contraseña - "+m.fromName, body)
}

// SendPasswordChanged notifies that the password was updated.
func (m *Mailer) SendPasswordChanged(to, userName string) error {
	greeting := "Hola"
	if userName != "" {
		greeting = "Hola, " + userName
	}
	body := fmt.Sprintf(`<html><body>
<h2>%s - Contraseña Actualizada</h2>
<p>%s,</p>
<p>Tu contraseña fue actualizada el %s.</p>
<p>Si no realizaste este cambio, contactá inmediatamente al administrador.</p>
</body></html>`, m.fromName, greeting, time.Now().Format("02/01/2006 15:04"))

	return m.Send(to, "Contraseña Actualizada - "+m.fromName, body)
}

// BreakerState exposes the SMTP circuit state for the health endpoint.
func (m *Mailer) BreakerState() string { return m.cb.State().String() }
