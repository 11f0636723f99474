// Package click содержит логику обработки перехода по короткому слагу:
// поиск цели, проверку статуса и запись перехода.
package click

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/referral-tracker/internal/lib/clientinfo"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// ErrLinkInactive возвращается при переходе по отключенной ссылке.
var ErrLinkInactive = errors.New("link is inactive")

// ClickRepository определяет методы хранилища для обработки перехода.
type ClickRepository interface {
	// GetReferralBySlug возвращает цель перехода по короткому слагу.
	GetReferralBySlug(ctx context.Context, slug string) (*models.RedirectTarget, error)
	// InsertClick вставляет запись о переходе.
	InsertClick(ctx context.Context, id string, entry models.ClickEntry) error
}

// ClickService обрабатывает переходы по реферальным ссылкам.
type ClickService struct {
	repo ClickRepository
	log  *slog.Logger
}

// NewClickService создает новый экземпляр ClickService.
func NewClickService(repo ClickRepository, log *slog.Logger) *ClickService {
	return &ClickService{
		repo: repo,
		log:  log,
	}
}

// Redirect возвращает целевой адрес ссылки по слагу и записывает переход.
// Ошибка записи перехода не блокирует редирект, посетитель важнее статистики.
func (s *ClickService) Redirect(ctx context.Context, slug string, info clientinfo.Info) (string, error) {
	target, err := s.repo.GetReferralBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if target.Status != models.ReferralStatusActive {
		return "", ErrLinkInactive
	}

	entry := models.ClickEntry{
		ReferralID: target.ID,
		IPAddress:  info.IPAddress,
		UserAgent:  info.UserAgent,
		RefererURL: info.RefererURL,
		DeviceType: info.DeviceType,
		Browser:    info.Browser,
		OS:         info.OS,
	}
	if err := s.repo.InsertClick(ctx, uuid.NewString(), entry); err != nil {
		s.log.Warn("failed to record click", slog.String("referral_id", target.ID), sl.Err(err))
	}
	return target.URL, nil
}
