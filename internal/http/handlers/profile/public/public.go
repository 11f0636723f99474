// Package public реализует публичный HTTP-обработчик профиля пользователя
// с его активными ссылками.
package public

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/services/profile"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы публичного профиля.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис публичных профилей
}

// Service описывает интерфейс получения публичного профиля.
type Service interface {
	Public(ctx context.Context, username string) (*models.PublicProfile, []*models.Referral, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Публичный профиль пользователя
// @Description Возвращает открытые данные пользователя и его активные ссылки.
// @Tags Profile
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} map[string]any "Профиль и ссылки"
// @Failure 403 {object} response.ErrorResponse "Профиль закрыт"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/public/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.public"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	user, referrals, err := h.service.Public(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("user not found", slog.String("username", username))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, profile.ErrProfilePrivate):
			log.Warn("profile is private", slog.String("username", username))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("profile is private"))
		default:
			log.Error("failed to load public profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not load profile"))
		}
		return
	}
	if referrals == nil {
		referrals = []*models.Referral{}
	}

	log.Info("public profile loaded", slog.String("username", username))
	render.JSON(w, r, response.OK(map[string]any{
		"user":      user,
		"referrals": referrals,
	}))
}
