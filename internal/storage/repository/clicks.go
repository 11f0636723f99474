package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// nullable возвращает nil для пустых строк, чтобы в базе оставался NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// InsertClick вставляет запись о переходе. Записи только добавляются.
func (s *Storage) InsertClick(ctx context.Context, id string, entry models.ClickEntry) error {
	const op = "storage.InsertClick"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clicks (id, referral_id, ip_address, user_agent, referer_url,
			      device_type, browser, os)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		id, entry.ReferralID, nullable(entry.IPAddress), nullable(entry.UserAgent),
		nullable(entry.RefererURL), nullable(entry.DeviceType), nullable(entry.Browser),
		nullable(entry.OS))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountClicksByReferral подсчитывает все переходы по одной ссылке.
func (s *Storage) CountClicksByReferral(ctx context.Context, referralID string) (int, error) {
	const op = "storage.CountClicksByReferral"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM clicks WHERE referral_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, referralID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountRecentClicksByReferral подсчитывает переходы по ссылке начиная с since.
func (s *Storage) CountRecentClicksByReferral(ctx context.Context, referralID string, since time.Time) (int, error) {
	const op = "storage.CountRecentClicksByReferral"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM clicks WHERE referral_id = $1 AND clicked_at >= $2`
	if err := s.DB.QueryRowContext(ctx, query, referralID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountClicksForUser подсчитывает все переходы по всем ссылкам пользователя.
func (s *Storage) CountClicksForUser(ctx context.Context, userID string) (int, error) {
	const op = "storage.CountClicksForUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*)
			  FROM clicks c
			  JOIN referrals r ON r.id = c.referral_id
			  WHERE r.user_id = $1`
	if err := s.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountRecentClicksForUser подсчитывает переходы пользователя начиная с since.
func (s *Storage) CountRecentClicksForUser(ctx context.Context, userID string, since time.Time) (int, error) {
	const op = "storage.CountRecentClicksForUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*)
			  FROM clicks c
			  JOIN referrals r ON r.id = c.referral_id
			  WHERE r.user_id = $1 AND c.clicked_at >= $2`
	if err := s.DB.QueryRowContext(ctx, query, userID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ClicksByDay возвращает количество переходов пользователя по дням начиная с since.
// Агрегация выполняется на стороне базы.
func (s *Storage) ClicksByDay(ctx context.Context, userID string, since time.Time) ([]models.DayCount, error) {
	const op = "storage.ClicksByDay"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT to_char(date_trunc('day', c.clicked_at), 'YYYY-MM-DD') AS day,
			      COUNT(*) AS count
			  FROM clicks c
			  JOIN referrals r ON r.id = c.referral_id
			  WHERE r.user_id = $1 AND c.clicked_at >= $2
			  GROUP BY day
			  ORDER BY day`
	rows, err := s.DB.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.DayCount
	for rows.Next() {
		var item models.DayCount
		if err := rows.Scan(&item.Day, &item.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
