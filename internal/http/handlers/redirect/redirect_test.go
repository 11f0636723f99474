package redirect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/referral-tracker/internal/lib/clientinfo"
	"github.com/magabrotheeeer/referral-tracker/internal/services/click"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

// MockService реализует интерфейс redirect.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Redirect(ctx context.Context, slug string, info clientinfo.Info) (string, error) {
	args := m.Called(ctx, slug, info)
	return args.String(0), args.Error(1)
}

func TestRedirectHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		slug           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		expectedTarget string
	}{
		{
			name: "успешный переход",
			slug: "my-bank",
			setupMock: func(m *MockService) {
				m.On("Redirect", mock.Anything, "my-bank", mock.Anything).
					Return("https://example.com/target", nil)
			},
			expectedStatus: http.StatusFound,
			expectedTarget: "https://example.com/target",
		},
		{
			name: "слаг не найден",
			slug: "missing",
			setupMock: func(m *MockService) {
				m.On("Redirect", mock.Anything, "missing", mock.Anything).
					Return("", repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"message":"link not found"`,
		},
		{
			name: "ссылка отключена",
			slug: "old-bank",
			setupMock: func(m *MockService) {
				m.On("Redirect", mock.Anything, "old-bank", mock.Anything).
					Return("", click.ErrLinkInactive)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"message":"link is inactive"`,
		},
		{
			name: "ошибка сервиса",
			slug: "my-bank",
			setupMock: func(m *MockService) {
				m.On("Redirect", mock.Anything, "my-bank", mock.Anything).
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"could not resolve link"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/r/"+tt.slug, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("slug", tt.slug)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedTarget != "" {
				assert.Equal(t, tt.expectedTarget, w.Header().Get("Location"))
			}
			if tt.expectedBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
					"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			}

			mockService.AssertExpectations(t)
		})
	}
}
