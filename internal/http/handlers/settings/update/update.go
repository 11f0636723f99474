// Package update реализует HTTP-обработчик частичного обновления настроек
// текущего пользователя. Поля тарифа pro гейтируются сервисом.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/referral-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/services/settings"
)

// Handler обрабатывает запросы обновления настроек.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис настроек
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс обновления настроек.
type Service interface {
	Update(ctx context.Context, userUID string, req models.DummySettings) (*models.UserSettings, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить настройки пользователя
// @Description Частично обновляет настройки. Поля тарифа pro доступны только платным пользователям, собственный домен требует активного дополнения.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param request body models.DummySettings true "Изменяемые поля настроек"
// @Success 200 {object} map[string]any "Обновленные настройки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав тарифа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/settings [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	updated, err := h.service.Update(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrProRequired):
			log.Warn("pro subscription required", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("pro subscription required"))
		case errors.Is(err, settings.ErrAddOnRequired):
			log.Warn("custom domain add-on required", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("custom domain add-on required"))
		default:
			log.Error("failed to update settings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update settings"))
		}
		return
	}

	log.Info("settings updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK(map[string]any{
		"settings": updated,
	}))
}
