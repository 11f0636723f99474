package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// InsertSubscription создает зеркальную запись подписки биллинг-провайдера.
func (s *Storage) InsertSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.InsertSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, user_id, plan_id, status,
			      current_period_start, current_period_end, cancel_at_period_end,
			      payment_provider, payment_provider_subscription_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.PlanID, sub.Status,
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd,
		sub.PaymentProvider, sub.ProviderSubID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSubscriptionByProviderID возвращает зеркальную запись по ID подписки провайдера.
func (s *Storage) GetSubscriptionByProviderID(ctx context.Context, providerSubID string) (*models.Subscription, error) {
	const op = "storage.GetSubscriptionByProviderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan_id, status, current_period_start,
			      current_period_end, cancel_at_period_end, payment_provider,
			      payment_provider_subscription_id, created_at, updated_at
			  FROM subscriptions
			  WHERE payment_provider_subscription_id = $1`
	var sub models.Subscription
	var providerID sql.NullString
	err := s.DB.QueryRowContext(ctx, query, providerSubID).
		Scan(&sub.ID, &sub.UserID, &sub.PlanID, &sub.Status, &sub.CurrentPeriodStart,
			&sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.PaymentProvider,
			&providerID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if providerID.Valid {
		sub.ProviderSubID = &providerID.String
	}
	return &sub, nil
}

// UpdateSubscriptionByProviderID обновляет план, статус и границы периода
// зеркальной записи подписки.
func (s *Storage) UpdateSubscriptionByProviderID(ctx context.Context, providerSubID, planID, status string,
	periodStart, periodEnd time.Time, cancelAtPeriodEnd bool) error {
	const op = "storage.UpdateSubscriptionByProviderID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET plan_id = $2,
			      status = $3,
			      current_period_start = $4,
			      current_period_end = $5,
			      cancel_at_period_end = $6,
			      updated_at = now()
			  WHERE payment_provider_subscription_id = $1`
	_, err := s.DB.ExecContext(ctx, query, providerSubID, planID, status,
		periodStart, periodEnd, cancelAtPeriodEnd)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateSubscriptionStatus обновляет только статус зеркальной записи.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, providerSubID, status string) error {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $2,
			      updated_at = now()
			  WHERE payment_provider_subscription_id = $1`
	_, err := s.DB.ExecContext(ctx, query, providerSubID, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
