// Package smtp отправляет письма через внешний SMTP сервер с обязательным STARTTLS.
package smtp

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/magabrotheeeer/referral-tracker/internal/config"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
)

// Mailer отправляет готовое письмо одному получателю.
type Mailer interface {
	// SendMail доставляет сформированное письмо msg получателю to.
	SendMail(to string, msg []byte) error
	// From возвращает адрес отправителя.
	From() string
}

// Transport реализует Mailer поверх net/smtp. Соединение открывается
// на каждое письмо: уведомления редкие, пул соединений не нужен.
type Transport struct {
	cfg *config.Config
	log *slog.Logger
}

// NewTransport создает новый экземпляр Transport.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	return &Transport{cfg: cfg, log: log}
}

// From возвращает адрес отправителя.
func (t *Transport) From() string {
	return t.cfg.SMTPUser
}

// SendMail доставляет письмо msg получателю to.
func (t *Transport) SendMail(to string, msg []byte) error {
	const op = "smtp.SendMail"

	client, err := t.connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(t.cfg.SMTPUser); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = wc.Write(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// connect устанавливает соединение с SMTP сервером, поднимает TLS
// и проходит аутентификацию.
func (t *Transport) connect() (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.SMTPHost, t.cfg.SMTPPort)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("failed to dial SMTP server: %w", err)
	}

	client, err := smtp.NewClient(conn, t.cfg.SMTPHost)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		t.log.Error("SMTP server does not support STARTTLS")
		_ = client.Close()
		return nil, fmt.Errorf("smtp server does not support STARTTLS")
	}
	tlsConfig := &tls.Config{
		ServerName: t.cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	if err = client.StartTLS(tlsConfig); err != nil {
		t.log.Error("failed to start TLS", sl.Err(err))
		_ = client.Close()
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", t.cfg.SMTPUser, t.cfg.SMTPPass, t.cfg.SMTPHost)
	if err = client.Auth(auth); err != nil {
		t.log.Error("smtp auth failed", sl.Err(err))
		_ = client.Close()
		return nil, fmt.Errorf("smtp auth failed: %w", err)
	}

	return client, nil
}
