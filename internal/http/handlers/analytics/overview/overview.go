// Package overview реализует HTTP-обработчик сводной статистики переходов
// текущего пользователя за выбранный период.
package overview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/referral-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// Handler обрабатывает запросы сводной статистики.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис аналитики
}

// Service описывает интерфейс сбора сводной статистики.
type Service interface {
	Overview(ctx context.Context, userUID, period string) (*models.AnalyticsOverview, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводная статистика переходов
// @Description Возвращает счетчики, разбивку по дням и рейтинг ссылок за период 7d, 30d, 90d или all. По умолчанию 30d.
// @Tags Analytics
// @Produce  json
// @Param period query string false "Период сводки (7d|30d|90d|all)"
// @Success 200 {object} map[string]any "Сводная статистика"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/analytics/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.overview"

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

	period := r.URL.Query().Get("period")
	result, err := h.service.Overview(r.Context(), userUID, period)
	if err != nil {
		log.Error("failed to build analytics overview", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build analytics overview"))
		return
	}

	log.Info("analytics overview built", slog.String("period", period))
	render.JSON(w, r, response.OK(result))
}
