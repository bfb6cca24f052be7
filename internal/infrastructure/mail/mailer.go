// Package mail implementa la capacidad sendMail(to, subject, body) usada por el
// aviso posterior al registro.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/carwash-api/internal/application/auth"
)

var (
	_ auth.Mailer = (*SMTPMailer)(nil)
	_ auth.Mailer = (*LogMailer)(nil)
)

// SMTPConfig credenciales del servidor saliente.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer envía por SMTP usando gomail.
type SMTPMailer struct {
	from string
	send func(msgs ...*gomail.Message) error
}

// NewSMTPMailer construye el mailer. From cae en User si no se define.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &SMTPMailer{from: cfg.From, send: d.DialAndSend}
}

// Send arma un mensaje text/plain y lo entrega. gomail no acepta contexto, así que
// el envío corre aparte y Send vuelve en cuanto ctx vence aunque el servidor no responda.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.ContainsAny(to, "\r\n") || strings.ContainsAny(subject, "\r\n") {
		return fmt.Errorf("mail: cabecera con salto de línea")
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	done := make(chan error, 1)
	go func() { done <- m.send(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: enviar a %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail: enviar a %s: %w", to, ctx.Err())
	}
}

// LogMailer no envía nada: registra el aviso. Se usa cuando MAIL_ENABLED=false.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer construye el mailer de solo log.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info().Str("to", to).Str("subject", subject).Msg("correo no enviado (MAIL_ENABLED=false)")
	return nil
}
