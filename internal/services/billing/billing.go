// Package billing содержит бизнес-логику оплаты: создание checkout-сессий
// и обработку webhook-событий биллинг-провайдера.
//
// Обработчики событий идемпотентны к повторной доставке: повторное событие
// приводит запись к тому же состоянию. События для неизвестных клиентов
// и подписок логируются и пропускаются, чтобы провайдер не ретраил их вечно.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
	"github.com/magabrotheeeer/referral-tracker/internal/stripeclient"
)

// paymentProvider значение колонки payment_provider зеркальных записей.
const paymentProvider = "stripe"

// UserRepository определяет методы работы с пользователями для биллинга.
type UserRepository interface {
	// GetUser возвращает пользователя по его UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByStripeCustomerID возвращает пользователя по ID клиента провайдера.
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	// SetStripeCustomerID сохраняет ID клиента провайдера для пользователя.
	SetStripeCustomerID(ctx context.Context, userUID, customerID string) error
	// UpdateUserTier обновляет тариф пользователя и срок его действия.
	UpdateUserTier(ctx context.Context, userUID, tier string, expiresAt *time.Time) error
}

// SubscriptionRepository определяет методы работы с зеркальными записями подписок.
type SubscriptionRepository interface {
	// InsertSubscription создает зеркальную запись подписки провайдера.
	InsertSubscription(ctx context.Context, sub models.Subscription) error
	// GetSubscriptionByProviderID возвращает зеркальную запись по ID подписки провайдера.
	GetSubscriptionByProviderID(ctx context.Context, providerSubID string) (*models.Subscription, error)
	// UpdateSubscriptionByProviderID обновляет план, статус и границы периода.
	UpdateSubscriptionByProviderID(ctx context.Context, providerSubID, planID, status string,
		periodStart, periodEnd time.Time, cancelAtPeriodEnd bool) error
	// UpdateSubscriptionStatus обновляет только статус зеркальной записи.
	UpdateSubscriptionStatus(ctx context.Context, providerSubID, status string) error
}

// Provider описывает используемые вызовы API биллинг-провайдера.
type Provider interface {
	// CreateCustomer создает клиента провайдера для пользователя.
	CreateCustomer(ctx context.Context, email, userUID string) (*stripeclient.Customer, error)
	// CreateCheckoutSession создает checkout-сессию подписки.
	CreateCheckoutSession(ctx context.Context, params stripeclient.CheckoutParams) (*stripeclient.CheckoutSession, error)
	// GetSubscription возвращает подписку провайдера по ее ID.
	GetSubscription(ctx context.Context, subscriptionID string) (*stripeclient.Subscription, error)
}

// Notifier отправляет служебные письма пользователям.
type Notifier interface {
	// SendPaymentFailed уведомляет пользователя о неудачном списании.
	SendPaymentFailed(email, username string) error
}

// BillingService связывает события провайдера с тарифом пользователя.
type BillingService struct {
	users     UserRepository
	subs      SubscriptionRepository
	provider  Provider
	notifier  Notifier
	proPlanID string
	log       *slog.Logger
}

// NewBillingService создает новый экземпляр BillingService. proPlanID — ID
// тарифа провайдера, дающего уровень pro.
func NewBillingService(users UserRepository, subs SubscriptionRepository,
	provider Provider, notifier Notifier, proPlanID string, log *slog.Logger) *BillingService {
	return &BillingService{
		users:     users,
		subs:      subs,
		provider:  provider,
		notifier:  notifier,
		proPlanID: proPlanID,
		log:       log,
	}
}

// tierForPrice возвращает тариф пользователя для тарифа провайдера.
func (s *BillingService) tierForPrice(priceID string) string {
	if priceID == s.proPlanID {
		return models.TierPro
	}
	return models.TierFree
}

// CreateCheckout создает checkout-сессию подписки и возвращает ее URL.
// Клиент провайдера создается лениво при первом обращении.
func (s *BillingService) CreateCheckout(ctx context.Context, userUID string, req models.DummyCheckout) (string, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}

	customerID := ""
	if user.StripeCustomerID != nil {
		customerID = *user.StripeCustomerID
	} else {
		customer, err := s.provider.CreateCustomer(ctx, user.Email, user.UID)
		if err != nil {
			return "", err
		}
		if err := s.users.SetStripeCustomerID(ctx, user.UID, customer.ID); err != nil {
			return "", err
		}
		customerID = customer.ID
	}

	session, err := s.provider.CreateCheckoutSession(ctx, stripeclient.CheckoutParams{
		CustomerID: customerID,
		PriceID:    req.PriceID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		UserUID:    user.UID,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("created checkout session", slog.String("session_id", session.ID))
	return session.URL, nil
}

// ProcessEvent обрабатывает webhook-событие провайдера. Неизвестные типы
// событий пропускаются без ошибки.
func (s *BillingService) ProcessEvent(ctx context.Context, event stripeclient.Event) error {
	log := s.log.With(slog.String("event_id", event.ID), slog.String("event_type", event.Type))

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, log, event.Data.Object)
	case "customer.subscription.updated":
		return s.handleSubscriptionUpdated(ctx, log, event.Data.Object)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, log, event.Data.Object)
	case "invoice.payment_succeeded":
		return s.handlePaymentSucceeded(ctx, log, event.Data.Object)
	case "invoice.payment_failed":
		return s.handlePaymentFailed(ctx, log, event.Data.Object)
	default:
		log.Info("skipping unhandled event type")
		return nil
	}
}

func (s *BillingService) handleCheckoutCompleted(ctx context.Context, log *slog.Logger, object json.RawMessage) error {
	var session stripeclient.CheckoutSession
	if err := json.Unmarshal(object, &session); err != nil {
		return fmt.Errorf("billing.handleCheckoutCompleted: %w", err)
	}
	if session.Subscription == "" {
		log.Warn("checkout session has no subscription")
		return nil
	}

	user, err := s.users.GetUserByStripeCustomerID(ctx, session.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("unknown customer in checkout session", slog.String("customer_id", session.CustomerID))
			return nil
		}
		return err
	}

	sub, err := s.provider.GetSubscription(ctx, session.Subscription)
	if err != nil {
		return err
	}
	periodStart := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()

	tier := s.tierForPrice(sub.PriceID())
	var expiresAt *time.Time
	if tier == models.TierPro {
		expiresAt = &periodEnd
	}
	if err := s.users.UpdateUserTier(ctx, user.UID, tier, expiresAt); err != nil {
		return err
	}

	providerSubID := sub.ID
	if _, err := s.subs.GetSubscriptionByProviderID(ctx, providerSubID); err == nil {
		// повторная доставка, зеркальная запись уже существует
		return s.subs.UpdateSubscriptionByProviderID(ctx, providerSubID, sub.PriceID(),
			models.SubscriptionStatusActive, periodStart, periodEnd, false)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	mirror := models.Subscription{
		ID:                 uuid.NewString(),
		UserID:             user.UID,
		PlanID:             sub.PriceID(),
		Status:             models.SubscriptionStatusActive,
		CurrentPeriodStart: periodStart,
		CurrentPeriodEnd:   periodEnd,
		PaymentProvider:    paymentProvider,
		ProviderSubID:      &providerSubID,
	}
	if err := s.subs.InsertSubscription(ctx, mirror); err != nil {
		return err
	}
	log.Info("activated subscription",
		slog.String("user_uid", user.UID), slog.String("tier", tier))
	return nil
}

func (s *BillingService) handleSubscriptionUpdated(ctx context.Context, log *slog.Logger, object json.RawMessage) error {
	var sub stripeclient.Subscription
	if err := json.Unmarshal(object, &sub); err != nil {
		return fmt.Errorf("billing.handleSubscriptionUpdated: %w", err)
	}

	// Пользователь определяется через зеркальную запись: событие по подписке,
	// которой нет в зеркале, пропускается.
	mirror, err := s.subs.GetSubscriptionByProviderID(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("unknown subscription in update", slog.String("subscription_id", sub.ID))
			return nil
		}
		return err
	}

	status := mirrorStatus(sub.Status)
	periodStart := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
	if err := s.subs.UpdateSubscriptionByProviderID(ctx, sub.ID, sub.PriceID(), status,
		periodStart, periodEnd, false); err != nil {
		return err
	}

	switch status {
	case models.SubscriptionStatusActive:
		tier := s.tierForPrice(sub.PriceID())
		var expiresAt *time.Time
		if tier == models.TierPro {
			expiresAt = &periodEnd
		}
		return s.users.UpdateUserTier(ctx, mirror.UserID, tier, expiresAt)
	case models.SubscriptionStatusCanceled:
		return s.users.UpdateUserTier(ctx, mirror.UserID, models.TierFree, nil)
	default:
		// past_due: тариф не понижается до фактической отмены
		return nil
	}
}

func (s *BillingService) handleSubscriptionDeleted(ctx context.Context, log *slog.Logger, object json.RawMessage) error {
	var sub stripeclient.Subscription
	if err := json.Unmarshal(object, &sub); err != nil {
		return fmt.Errorf("billing.handleSubscriptionDeleted: %w", err)
	}

	mirror, err := s.subs.GetSubscriptionByProviderID(ctx, sub.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("unknown subscription in delete", slog.String("subscription_id", sub.ID))
			return nil
		}
		return err
	}

	if err := s.subs.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionStatusCanceled); err != nil {
		return err
	}
	if err := s.users.UpdateUserTier(ctx, mirror.UserID, models.TierFree, nil); err != nil {
		return err
	}
	log.Info("downgraded user to free tier", slog.String("user_uid", mirror.UserID))
	return nil
}

func (s *BillingService) handlePaymentSucceeded(ctx context.Context, log *slog.Logger, object json.RawMessage) error {
	var invoice stripeclient.Invoice
	if err := json.Unmarshal(object, &invoice); err != nil {
		return fmt.Errorf("billing.handlePaymentSucceeded: %w", err)
	}
	if invoice.Subscription == "" {
		log.Info("invoice without subscription, nothing to extend")
		return nil
	}

	user, err := s.users.GetUserByStripeCustomerID(ctx, invoice.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("unknown customer in invoice", slog.String("customer_id", invoice.CustomerID))
			return nil
		}
		return err
	}

	sub, err := s.provider.GetSubscription(ctx, invoice.Subscription)
	if err != nil {
		return err
	}
	periodStart := time.Unix(sub.CurrentPeriodStart, 0).UTC()
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0).UTC()

	if err := s.subs.UpdateSubscriptionByProviderID(ctx, sub.ID, sub.PriceID(),
		models.SubscriptionStatusActive, periodStart, periodEnd, false); err != nil {
		return err
	}
	tier := s.tierForPrice(sub.PriceID())
	var expiresAt *time.Time
	if tier == models.TierPro {
		expiresAt = &periodEnd
	}
	if err := s.users.UpdateUserTier(ctx, user.UID, tier, expiresAt); err != nil {
		return err
	}
	log.Info("extended subscription", slog.String("user_uid", user.UID))
	return nil
}

func (s *BillingService) handlePaymentFailed(ctx context.Context, log *slog.Logger, object json.RawMessage) error {
	var invoice stripeclient.Invoice
	if err := json.Unmarshal(object, &invoice); err != nil {
		return fmt.Errorf("billing.handlePaymentFailed: %w", err)
	}

	if invoice.Subscription != "" {
		if err := s.subs.UpdateSubscriptionStatus(ctx, invoice.Subscription, models.SubscriptionStatusPastDue); err != nil {
			return err
		}
	}

	user, err := s.users.GetUserByStripeCustomerID(ctx, invoice.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("unknown customer in failed invoice", slog.String("customer_id", invoice.CustomerID))
			return nil
		}
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.SendPaymentFailed(user.Email, user.Username); err != nil {
			log.Warn("failed to send payment notification", sl.Err(err))
		}
	}
	log.Info("marked subscription past due", slog.String("user_uid", user.UID))
	return nil
}

// mirrorStatus приводит статус провайдера к статусу зеркальной записи.
func mirrorStatus(providerStatus string) string {
	switch providerStatus {
	case "active", "trialing":
		return models.SubscriptionStatusActive
	case "past_due":
		return models.SubscriptionStatusPastDue
	default:
		return models.SubscriptionStatusCanceled
	}
}
