package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/referral-tracker/internal/stripeclient"
)

const testSecret = "whsec_test"

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ProcessEvent(ctx context.Context, event stripeclient.Event) error {
	return m.Called(ctx, event).Error(0)
}

func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	eventPayload := `{"id":"evt_1","type":"invoice.payment_succeeded","data":{"object":{"id":"in_1"}}}`

	tests := []struct {
		name           string
		payload        string
		signature      func(payload []byte) string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная обработка события",
			payload: eventPayload,
			signature: func(payload []byte) string {
				return signPayload(payload, testSecret, time.Now())
			},
			setupMock: func(m *MockService) {
				m.On("ProcessEvent", mock.Anything, mock.MatchedBy(func(event stripeclient.Event) bool {
					return event.ID == "evt_1" && event.Type == "invoice.payment_succeeded"
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"received":true`,
		},
		{
			name:    "неверная подпись",
			payload: eventPayload,
			signature: func(payload []byte) string {
				return signPayload(payload, "whsec_wrong", time.Now())
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid signature"`,
		},
		{
			name:    "устаревшая подпись",
			payload: eventPayload,
			signature: func(payload []byte) string {
				return signPayload(payload, testSecret, time.Now().Add(-time.Hour))
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid signature"`,
		},
		{
			name:    "некорректное тело события",
			payload: `{"id":`,
			signature: func(payload []byte) string {
				return signPayload(payload, testSecret, time.Now())
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid event payload"`,
		},
		{
			name:    "ошибка обработки события",
			payload: eventPayload,
			signature: func(payload []byte) string {
				return signPayload(payload, testSecret, time.Now())
			},
			setupMock: func(m *MockService) {
				m.On("ProcessEvent", mock.Anything, mock.Anything).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"could not process event"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, testSecret)

			req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(tt.payload))
			req.Header.Set("Stripe-Signature", tt.signature([]byte(tt.payload)))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
