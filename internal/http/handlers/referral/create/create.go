// Package create реализует HTTP-обработчик создания реферальной ссылки.
//
// Handler принимает JSON-запрос с данными ссылки, валидирует их, извлекает uid
// пользователя из контекста и делегирует создание сервису. На бесплатном тарифе
// действует лимит количества ссылок.
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
	"github.com/magabrotheeeer/referral-tracker/internal/services/referral"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// Handler управляет HTTP-запросами на создание ссылок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики ссылок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания ссылки.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyReferral) (*models.Referral, error)
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
// @Summary Создать реферальную ссылку
// @Description Создает новую ссылку текущего пользователя. На бесплатном тарифе действует лимит.
// @Tags Referrals
// @Accept  json
// @Produce  json
// @Param request body models.DummyReferral true "Данные новой ссылки"
// @Success 201 {object} map[string]any "Созданная ссылка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Достигнут лимит бесплатного тарифа"
// @Failure 409 {object} response.ErrorResponse "Имя или слаг уже заняты"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/referrals/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReferral
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

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

	created, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, referral.ErrLimitExceeded):
			log.Warn("referral limit reached", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("free tier limit reached, upgrade to pro to add more referrals"))
		case errors.Is(err, repository.ErrDuplicate):
			log.Warn("duplicate referral", slog.String("name", req.Name))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("referral with this name or slug already exists"))
		default:
			log.Error("failed to create referral", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create referral"))
		}
		return
	}

	log.Info("referral created", slog.String("id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"referral": created,
	}))
}
