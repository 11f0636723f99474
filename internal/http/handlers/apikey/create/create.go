// Package create реализует HTTP-обработчик выпуска ключа доступа к API.
// Значение ключа возвращается только в ответе на создание.
package create

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

// Handler обрабатывает запросы выпуска ключей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис настроек и ключей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс выпуска ключа.
type Service interface {
	CreateAPIKey(ctx context.Context, userUID string, req models.DummyAPIKey) (*models.CreatedAPIKey, error)
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
// @Summary Выпустить ключ доступа к API
// @Description Создает новый ключ. Требуется тариф pro и включенный доступ к API. Значение ключа показывается один раз.
// @Tags Settings
// @Accept  json
// @Produce  json
// @Param request body models.DummyAPIKey true "Данные нового ключа"
// @Success 201 {object} map[string]any "Созданный ключ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав тарифа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/settings/api-keys [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.apikey.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAPIKey
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

	created, err := h.service.CreateAPIKey(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrProRequired):
			log.Warn("pro subscription required", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("pro subscription required"))
		case errors.Is(err, settings.ErrAPIAccessDisabled):
			log.Warn("api access is disabled", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("api access is disabled"))
		default:
			log.Error("failed to create api key", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create api key"))
		}
		return
	}

	log.Info("api key created", slog.String("id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithMessage(map[string]any{
		"api_key": created,
	}, "store this key securely, it will not be shown again"))
}
