package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/referral-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/services/settings"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateAPIKey(ctx context.Context, userUID string, req models.DummyAPIKey) (*models.CreatedAPIKey, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.CreatedAPIKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateAPIKeyHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	validBody := `{"key_name":"ci"}`

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный выпуск ключа",
			body:    validBody,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("CreateAPIKey", mock.Anything, "uid-1", mock.MatchedBy(func(req models.DummyAPIKey) bool {
					return req.KeyName == "ci"
				})).Return(&models.CreatedAPIKey{ID: "key1", KeyName: "ci", APIKey: "ref_abcdef"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"api_key":"ref_abcdef"`,
		},
		{
			name:           "пустое имя ключа",
			body:           `{"key_name":""}`,
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"keyname":"field keyname is a required field"`,
		},
		{
			name:           "пользователь не авторизован",
			body:           validBody,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"message":"authentication required"`,
		},
		{
			name:    "требуется тариф pro",
			body:    validBody,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("CreateAPIKey", mock.Anything, "uid-1", mock.Anything).
					Return(nil, settings.ErrProRequired)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"message":"pro subscription required"`,
		},
		{
			name:    "доступ к API выключен",
			body:    validBody,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("CreateAPIKey", mock.Anything, "uid-1", mock.Anything).
					Return(nil, settings.ErrAPIAccessDisabled)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"message":"api access is disabled"`,
		},
		{
			name:    "ошибка сервиса",
			body:    validBody,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("CreateAPIKey", mock.Anything, "uid-1", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"could not create api key"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/settings/api-keys", strings.NewReader(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
