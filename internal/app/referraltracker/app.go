// Package referraltracker собирает приложение: хранилище, миграции, кеш,
// сервисы и HTTP-сервер с маршрутами.
package referraltracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/referral-tracker/internal/cache"
	"github.com/magabrotheeeer/referral-tracker/internal/config"
	libjwt "github.com/magabrotheeeer/referral-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/referral-tracker/internal/migrations"
	analyticsservice "github.com/magabrotheeeer/referral-tracker/internal/services/analytics"
	authservice "github.com/magabrotheeeer/referral-tracker/internal/services/auth"
	billingservice "github.com/magabrotheeeer/referral-tracker/internal/services/billing"
	categoryservice "github.com/magabrotheeeer/referral-tracker/internal/services/category"
	clickservice "github.com/magabrotheeeer/referral-tracker/internal/services/click"
	notifierservice "github.com/magabrotheeeer/referral-tracker/internal/services/notifier"
	profileservice "github.com/magabrotheeeer/referral-tracker/internal/services/profile"
	referralservice "github.com/magabrotheeeer/referral-tracker/internal/services/referral"
	settingsservice "github.com/magabrotheeeer/referral-tracker/internal/services/settings"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
	"github.com/magabrotheeeer/referral-tracker/internal/stripeclient"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение из конфигурации: подключает базу, применяет миграции,
// поднимает кеш и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := stripeclient.NewClient(cfg.Stripe.SecretKey)
	smtpTransport := smtp.NewTransport(cfg, logger)

	notifier := notifierservice.NewNotifierService(smtpTransport, logger)
	services := Services{
		Auth:      authservice.NewAuthService(db, jwtMaker),
		Referral:  referralservice.NewReferralService(db, db, cacheRedis, logger),
		Click:     clickservice.NewClickService(db, logger),
		Analytics: analyticsservice.NewAnalyticsService(db, logger),
		Settings:  settingsservice.NewSettingsService(db, db, logger),
		Billing:   billingservice.NewBillingService(db, db, providerClient, notifier, cfg.Stripe.ProPlanID, logger),
		Category:  categoryservice.NewCategoryService(db, cacheRedis, logger),
		Profile:   profileservice.NewProfileService(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker, cfg.Stripe.WebhookSecret, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
