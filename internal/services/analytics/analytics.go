// Package analytics собирает сводную статистику переходов пользователя:
// счетчики, разбивку по дням и рейтинг ссылок.
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// topReferralsLimit размер рейтинга ссылок в сводке.
const topReferralsLimit = 5

// AnalyticsRepository определяет агрегирующие выборки по переходам.
type AnalyticsRepository interface {
	// CountUserReferrals подсчитывает все ссылки пользователя.
	CountUserReferrals(ctx context.Context, userID string) (int, error)
	// CountClicksForUser подсчитывает все переходы по всем ссылкам пользователя.
	CountClicksForUser(ctx context.Context, userID string) (int, error)
	// CountRecentClicksForUser подсчитывает переходы пользователя начиная с since.
	CountRecentClicksForUser(ctx context.Context, userID string, since time.Time) (int, error)
	// ClicksByDay возвращает количество переходов пользователя по дням начиная с since.
	ClicksByDay(ctx context.Context, userID string, since time.Time) ([]models.DayCount, error)
	// ListTopReferrals возвращает ссылки пользователя с числом переходов.
	ListTopReferrals(ctx context.Context, userID string, limit int) ([]models.TopReferral, error)
}

// AnalyticsService считает сводную статистику за период.
type AnalyticsService struct {
	repo AnalyticsRepository
	log  *slog.Logger
}

// NewAnalyticsService создает новый экземпляр AnalyticsService.
func NewAnalyticsService(repo AnalyticsRepository, log *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo: repo,
		log:  log,
	}
}

// periodStart возвращает начало периода сводки и признак "за всё время".
// Неизвестные значения трактуются как период по умолчанию в 30 дней.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "7d":
		return now.AddDate(0, 0, -7), false
	case "90d":
		return now.AddDate(0, 0, -90), false
	case "all":
		return time.Time{}, true
	default:
		return now.AddDate(0, 0, -30), false
	}
}

// Overview собирает сводку пользователя за период "7d", "30d", "90d" или "all".
func (s *AnalyticsService) Overview(ctx context.Context, userUID, period string) (*models.AnalyticsOverview, error) {
	now := time.Now().UTC()
	since, all := periodStart(period, now)

	totalReferrals, err := s.repo.CountUserReferrals(ctx, userUID)
	if err != nil {
		return nil, err
	}

	// Общий счетчик не зависит от периода, окно влияет только на recent_clicks.
	totalClicks, err := s.repo.CountClicksForUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	recentClicks := totalClicks
	if !all {
		recentClicks, err = s.repo.CountRecentClicksForUser(ctx, userUID, since)
		if err != nil {
			return nil, err
		}
	}

	byDay, err := s.repo.ClicksByDay(ctx, userUID, since)
	if err != nil {
		return nil, err
	}

	top, err := s.repo.ListTopReferrals(ctx, userUID, topReferralsLimit)
	if err != nil {
		return nil, err
	}

	return &models.AnalyticsOverview{
		TotalReferrals: totalReferrals,
		TotalClicks:    totalClicks,
		RecentClicks:   recentClicks,
		ClicksByDay:    byDay,
		TopReferrals:   top,
	}, nil
}
