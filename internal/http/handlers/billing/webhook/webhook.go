// Package webhook реализует HTTP-обработчик webhook-событий биллинг-провайдера.
//
// Handler проверяет подпись запроса по заголовку Stripe-Signature, десериализует
// событие и делегирует обработку сервису биллинга. Успешно принятые события,
// включая неизвестные типы, подтверждаются статусом 200, чтобы провайдер
// не ретраил доставку.
package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/referral-tracker/internal/http/response"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/referral-tracker/internal/stripeclient"
)

// maxBodySize предел размера тела webhook-запроса.
const maxBodySize = 1 << 20

// Handler обрабатывает webhook-события провайдера.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service      // Сервис биллинга
	webhookSecret string       // Секрет подписи webhook-событий
}

// Service описывает интерфейс обработки события.
type Service interface {
	ProcessEvent(ctx context.Context, event stripeclient.Event) error
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, webhookSecret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: webhookSecret,
	}
}

// ServeHTTP godoc
// @Summary Webhook биллинг-провайдера
// @Description Принимает события подписи Stripe-Signature и обновляет тариф пользователя.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]any "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или тело запроса"
// @Failure 500 {object} response.ErrorResponse "Ошибка обработки события"
// @Router /api/stripe/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		log.Error("failed to read request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if err := stripeclient.VerifySignature(payload, sigHeader, h.webhookSecret, time.Now()); err != nil {
		log.Warn("webhook signature verification failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var event stripeclient.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error("failed to decode event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid event payload"))
		return
	}
	log.Info("webhook event received", slog.String("event_type", event.Type))

	if err := h.service.ProcessEvent(r.Context(), event); err != nil {
		log.Error("failed to process event", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process event"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"received": true,
	}))
}
