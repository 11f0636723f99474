// Package remove реализует HTTP-обработчик отзыва ключа доступа к API.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/referral-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы отзыва ключей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис настроек и ключей
}

// Service описывает интерфейс отзыва ключа.
type Service interface {
	RemoveAPIKey(ctx context.Context, userUID, id string) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отозвать ключ доступа к API
// @Description Удаляет ключ текущего пользователя.
// @Tags Settings
// @Produce  json
// @Param id path string true "ID ключа"
// @Success 200 {object} map[string]any "Ключ удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Ключ не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/settings/api-keys/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.apikey.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.RemoveAPIKey(r.Context(), userUID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("api key not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("api key not found"))
			return
		}
		log.Error("failed to remove api key", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove api key"))
		return
	}

	log.Info("api key removed", slog.String("id", id))
	render.JSON(w, r, response.OKWithMessage(nil, "api key deleted"))
}
