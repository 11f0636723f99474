// Package list реализует HTTP-обработчик получения списка ссылок пользователя
// с фильтрацией, сортировкой и пагинацией через query-параметры.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/referral-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
)

// Handler управляет HTTP-запросами на получение списка ссылок.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики ссылок
}

// Service описывает интерфейс бизнес-логики списка ссылок.
type Service interface {
	List(ctx context.Context, userUID string, filter models.ReferralFilter) ([]*models.Referral, models.Pagination, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список реферальных ссылок
// @Description Возвращает страницу ссылок текущего пользователя. Поддерживает фильтры category и status, сортировку sort/order и пагинацию page/limit.
// @Tags Referrals
// @Produce  json
// @Param category query string false "Фильтр по категории"
// @Param status query string false "Фильтр по статусу (active|inactive)"
// @Param sort query string false "Колонка сортировки"
// @Param order query string false "Направление сортировки (asc|desc)"
// @Param page query int false "Номер страницы"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Страница ссылок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/referrals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referral.list"

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

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	filter := models.ReferralFilter{
		Category: query.Get("category"),
		Status:   query.Get("status"),
		Sort:     query.Get("sort"),
		Order:    query.Get("order"),
		Page:     page,
		Limit:    limit,
	}

	items, pagination, err := h.service.List(r.Context(), userUID, filter)
	if err != nil {
		log.Error("failed to list referrals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list referrals"))
		return
	}
	if items == nil {
		items = []*models.Referral{}
	}

	log.Info("referrals listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OK(map[string]any{
		"referrals":  items,
		"pagination": pagination,
	}))
}
