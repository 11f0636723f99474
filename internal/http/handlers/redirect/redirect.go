// Package redirect реализует публичный HTTP-обработчик перехода по короткому слагу.
//
// Handler находит цель перехода, записывает клик и отвечает HTTP 302 на целевой
// адрес. Запись клика выполняется по принципу best effort и не задерживает посетителя.
package redirect

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/clientinfo"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/services/click"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// Handler обрабатывает публичные переходы по слагам.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис обработки переходов
}

// Service описывает интерфейс обработки перехода.
type Service interface {
	Redirect(ctx context.Context, slug string, info clientinfo.Info) (string, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переход по короткому слагу
// @Description Записывает переход и перенаправляет посетителя на целевой адрес ссылки.
// @Tags Redirect
// @Produce  json
// @Param slug path string true "Короткий слаг ссылки"
// @Success 302 "Перенаправление на целевой адрес"
// @Failure 403 {object} response.ErrorResponse "Ссылка отключена"
// @Failure 404 {object} response.ErrorResponse "Слаг не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/r/{slug} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.redirect"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	slug := chi.URLParam(r, "slug")
	info := clientinfo.FromRequest(r)

	url, err := h.service.Redirect(r.Context(), slug, info)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Warn("slug not found", slog.String("slug", slug))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("link not found"))
		case errors.Is(err, click.ErrLinkInactive):
			log.Warn("link is inactive", slog.String("slug", slug))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("link is inactive"))
		default:
			log.Error("failed to resolve redirect", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not resolve link"))
		}
		return
	}

	log.Info("redirecting visitor", slog.String("slug", slug))
	http.Redirect(w, r, url, http.StatusFound)
}
