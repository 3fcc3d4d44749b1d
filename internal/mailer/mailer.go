package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/fitcore/gym-backend/internal/config"
)

type Mailer struct {
	host string
	port string
	user string
	pass string
	from string

	frontendURL string
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:        cfg.SMTPHost,
		port:        cfg.SMTPPort,
		user:        cfg.SMTPUser,
		pass:        cfg.SMTPPass,
		from:        cfg.MailFrom,
		frontendURL: cfg.FrontendURL,
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.host == "" || m.user == "" || m.pass == "" || m.from == "" {
		return fmt.Errorf("smtp credentials not fully configured")
	}

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", to, subject, body))

	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *Mailer) SendPasswordReset(to, username, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received a request to reset your password. Open the link below to choose a new one:\n\n%s\n\nThe link expires in 1 hour. If you did not ask for this, ignore this email.",
		username, link,
	)
	return m.send(to, "Password Reset Request", body)
}
