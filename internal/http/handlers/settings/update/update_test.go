package update

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

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, userUID string, req models.DummySettings) (*models.UserSettings, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.UserSettings), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateSettingsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное обновление настроек",
			body:    `{"public_profile":false}`,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "uid-1", mock.MatchedBy(func(req models.DummySettings) bool {
					return req.PublicProfile != nil && !*req.PublicProfile
				})).Return(&models.UserSettings{UserID: "uid-1", PublicProfile: false}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"public_profile":false`,
		},
		{
			name:           "некорректный домен",
			body:           `{"custom_domain":"not a domain"}`,
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"customdomain":"field customdomain must be a valid domain name"`,
		},
		{
			name:           "пользователь не авторизован",
			body:           `{"public_profile":false}`,
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"message":"authentication required"`,
		},
		{
			name:    "требуется тариф pro",
			body:    `{"white_labeling":true}`,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "uid-1", mock.Anything).
					Return(nil, settings.ErrProRequired)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"message":"pro subscription required"`,
		},
		{
			name:    "требуется дополнение для домена",
			body:    `{"custom_domain":"links.example.com"}`,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "uid-1", mock.Anything).
					Return(nil, settings.ErrAddOnRequired)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"message":"custom domain add-on required"`,
		},
		{
			name:    "ошибка сервиса",
			body:    `{"public_profile":false}`,
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "uid-1", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"message":"could not update settings"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body))
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
