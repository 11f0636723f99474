// Package read реализует HTTP-обработчик получения одной ссылки владельца
// вместе со счетчиками переходов.
package read

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
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// Handler обрабатывает запросы на получение ссылки по идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики ссылок
}

// Service описывает интерфейс бизнес-логики чтения ссылки.
type Service interface {
	Read(ctx context.Context, userUID, id string) (*models.ReferralWithStats, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить реферальную ссылку
// @Description Возвращает ссылку текущего пользователя со счетчиками переходов.
// @Tags Referrals
// @Produce  json
// @Param id path string true "ID ссылки"
// @Success 200 {object} map[string]any "Ссылка со статистикой"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Ссылка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/referrals/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.read"

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
	res, err := h.service.Read(r.Context(), userUID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("referral not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("referral not found"))
			return
		}
		log.Error("failed to read referral", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read referral"))
		return
	}

	log.Info("referral read", slog.String("id", id))
	render.JSON(w, r, response.OK(map[string]any{
		"referral": res,
	}))
}
