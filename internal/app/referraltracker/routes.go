package referraltracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	analyticsoverview "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/analytics/overview"
	apikeycreate "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/apikey/create"
	apikeyremove "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/apikey/remove"
	"github.com/magabrotheeeer/referral-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/referral-tracker/internal/http/handlers/auth/register"
	billingcheckout "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/billing/checkout"
	billingwebhook "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/billing/webhook"
	categorylist "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/category/list"
	"github.com/magabrotheeeer/referral-tracker/internal/http/handlers/health"
	profilepublic "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/profile/public"
	"github.com/magabrotheeeer/referral-tracker/internal/http/handlers/redirect"
	referralcreate "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/referral/create"
	referrallist "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/referral/list"
	referralread "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/referral/read"
	referralremove "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/referral/remove"
	referralupdate "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/referral/update"
	settingsread "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/settings/read"
	settingsupdate "github.com/magabrotheeeer/referral-tracker/internal/http/handlers/settings/update"
	"github.com/magabrotheeeer/referral-tracker/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/referral-tracker/internal/lib/jwt"
	analyticsservice "github.com/magabrotheeeer/referral-tracker/internal/services/analytics"
	authservice "github.com/magabrotheeeer/referral-tracker/internal/services/auth"
	billingservice "github.com/magabrotheeeer/referral-tracker/internal/services/billing"
	categoryservice "github.com/magabrotheeeer/referral-tracker/internal/services/category"
	clickservice "github.com/magabrotheeeer/referral-tracker/internal/services/click"
	profileservice "github.com/magabrotheeeer/referral-tracker/internal/services/profile"
	referralservice "github.com/magabrotheeeer/referral-tracker/internal/services/referral"
	settingsservice "github.com/magabrotheeeer/referral-tracker/internal/services/settings"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// Services собирает сервисы бизнес-логики для регистрации маршрутов.
type Services struct {
	Auth      *authservice.AuthService
	Referral  *referralservice.ReferralService
	Click     *clickservice.ClickService
	Analytics *analyticsservice.AnalyticsService
	Settings  *settingsservice.SettingsService
	Billing   *billingservice.BillingService
	Category  *categoryservice.CategoryService
	Profile   *profileservice.ProfileService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	jwtMaker libjwt.Maker, webhookSecret string, services Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, services.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, services.Auth).ServeHTTP)
		r.Get("/categories", categorylist.New(logger, services.Category).ServeHTTP)
		r.Get("/public/{username}", profilepublic.New(logger, services.Profile).ServeHTTP)
		r.Get("/r/{slug}", redirect.New(logger, services.Click).ServeHTTP)

		// Webhook endpoint (без аутентификации, подпись проверяется обработчиком)
		r.Post("/stripe/webhook", billingwebhook.New(logger, services.Billing, webhookSecret).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/referrals/create", referralcreate.New(logger, services.Referral).ServeHTTP)
			r.Get("/referrals", referrallist.New(logger, services.Referral).ServeHTTP)
			r.Get("/referrals/{id}", referralread.New(logger, services.Referral).ServeHTTP)
			r.Put("/referrals/{id}", referralupdate.New(logger, services.Referral).ServeHTTP)
			r.Delete("/referrals/{id}", referralremove.New(logger, services.Referral).ServeHTTP)

			r.Get("/analytics/overview", analyticsoverview.New(logger, services.Analytics).ServeHTTP)

			r.Get("/settings", settingsread.New(logger, services.Settings).ServeHTTP)
			r.Put("/settings", settingsupdate.New(logger, services.Settings).ServeHTTP)
			r.Post("/settings/api-keys", apikeycreate.New(logger, services.Settings).ServeHTTP)
			r.Delete("/settings/api-keys/{id}", apikeyremove.New(logger, services.Settings).ServeHTTP)

			r.Post("/stripe/create-checkout", billingcheckout.New(logger, services.Billing).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
