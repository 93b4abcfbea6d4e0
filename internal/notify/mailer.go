package notify

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/cantwait/lash-backend/config"
)

// Mailer delivers outbound email.
type Mailer interface {
	Send(to, subject, body string, html bool) error
	SendPassword(to, password string) error
}

// SmtpMailer sends mail through a plain SMTP transport.
type SmtpMailer struct {
	cfg config.SmtpConfig
}

func NewSmtpMailer(cfg config.SmtpConfig) *SmtpMailer {
	return &SmtpMailer{cfg: cfg}
}

func (m *SmtpMailer) Send(to, subject, body string, html bool) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	if html {
		msg.SetBody("text/html", body)
	} else {
		msg.SetBody("text/plain", body)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return err
	}
	zap.L().Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendPassword mails a freshly generated account password.
func (m *SmtpMailer) SendPassword(to, password string) error {
	body := fmt.Sprintf("<p>Bienvenido a lalalash su password es: <strong>%s</strong></p>", password)
	return m.Send(to, "Contraseña de Usuario", body, true)
}
