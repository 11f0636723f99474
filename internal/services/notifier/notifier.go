// Package notifier отправляет служебные письма пользователям через SMTP.
package notifier

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/smtp"
)

// NotifierService формирует и отправляет письма.
type NotifierService struct {
	mailer smtp.Mailer
	log    *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(mailer smtp.Mailer, log *slog.Logger) *NotifierService {
	return &NotifierService{
		mailer: mailer,
		log:    log,
	}
}

// SendPaymentFailed уведомляет пользователя о неудачном списании за подписку.
func (s *NotifierService) SendPaymentFailed(email, username string) error {
	subject := "Не удалось продлить подписку Referral Tracker"
	bodyText := fmt.Sprintf(`Здравствуйте, %s!

Мы не смогли списать оплату за вашу подписку Referral Tracker Pro.
Пожалуйста, проверьте способ оплаты в настройках аккаунта.
После нескольких неудачных попыток подписка будет отменена.`, username)

	msg := strings.Join([]string{
		"From: " + s.mailer.From(),
		"To: " + email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	if err := s.mailer.SendMail(email, []byte(msg)); err != nil {
		s.log.Error("failed to send payment notification", sl.Err(err))
		return err
	}
	s.log.Info("payment failure email sent", slog.String("to", email))
	return nil
}
