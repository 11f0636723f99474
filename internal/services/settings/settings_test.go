package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/referral-tracker/internal/lib/apikey"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}
func (m *RepoMock) InsertSettings(ctx context.Context, st models.UserSettings) (*models.UserSettings, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}
func (m *RepoMock) UpdateSettings(ctx context.Context, st models.UserSettings) (*models.UserSettings, error) {
	args := m.Called(ctx, st)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSettings), args.Error(1)
}
func (m *RepoMock) HasActiveAddOn(ctx context.Context, userID, addOnType string) (bool, error) {
	args := m.Called(ctx, userID, addOnType)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) CreateAPIKey(ctx context.Context, key models.APIKey) (*models.CreatedAPIKey, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreatedAPIKey), args.Error(1)
}
func (m *RepoMock) DeleteAPIKey(ctx context.Context, userID, id string) (int, error) {
	args := m.Called(ctx, userID, id)
	return args.Int(0), args.Error(1)
}

type UsersMock struct{ mock.Mock }

func (m *UsersMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func TestSettingsService_Get(t *testing.T) {
	t.Run("existing settings returned as is", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSettingsService(repo, new(UsersMock), newNoopLogger())

		stored := &models.UserSettings{UserID: "user1", PublicProfile: false, APIAccess: true}
		repo.On("GetSettings", mock.Anything, "user1").Return(stored, nil).Once()

		got, err := svc.Get(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("missing row falls back to defaults", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSettingsService(repo, new(UsersMock), newNoopLogger())

		repo.On("GetSettings", mock.Anything, "user1").Return(nil, repository.ErrNotFound).Once()

		got, err := svc.Get(context.Background(), "user1")
		assert.NoError(t, err)
		assert.Equal(t, "user1", got.UserID)
		assert.True(t, got.PublicProfile)
		assert.False(t, got.APIAccess)
	})
}

func TestSettingsService_Update(t *testing.T) {
	freeUser := &models.User{UID: "user1", SubscriptionTier: models.TierFree}
	proUser := &models.User{UID: "user1", SubscriptionTier: models.TierPro}

	tests := []struct {
		name       string
		req        models.DummySettings
		setupMocks func(r *RepoMock, u *UsersMock)
		wantErr    error
	}{
		{
			name: "free user updates plain fields",
			req:  models.DummySettings{PublicProfile: boolPtr(false)},
			setupMocks: func(r *RepoMock, _ *UsersMock) {
				current := models.DefaultSettings()
				current.UserID = "user1"
				r.On("GetSettings", mock.Anything, "user1").Return(&current, nil).Once()
				r.On("UpdateSettings", mock.Anything, mock.MatchedBy(func(st models.UserSettings) bool {
					return !st.PublicProfile && st.DefaultLogoColor == current.DefaultLogoColor
				})).Return(&models.UserSettings{UserID: "user1"}, nil).Once()
			},
		},
		{
			name: "free user cannot enable white labeling",
			req:  models.DummySettings{WhiteLabeling: boolPtr(true)},
			setupMocks: func(_ *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(freeUser, nil).Once()
			},
			wantErr: ErrProRequired,
		},
		{
			name: "custom domain requires active add-on",
			req:  models.DummySettings{CustomDomain: strPtr("links.example.com")},
			setupMocks: func(r *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(proUser, nil).Once()
				r.On("HasActiveAddOn", mock.Anything, "user1", models.AddOnCustomDomain).Return(false, nil).Once()
			},
			wantErr: ErrAddOnRequired,
		},
		{
			name: "pro user with add-on sets custom domain",
			req:  models.DummySettings{CustomDomain: strPtr("links.example.com")},
			setupMocks: func(r *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(proUser, nil).Once()
				r.On("HasActiveAddOn", mock.Anything, "user1", models.AddOnCustomDomain).Return(true, nil).Once()
				current := models.DefaultSettings()
				current.UserID = "user1"
				r.On("GetSettings", mock.Anything, "user1").Return(&current, nil).Once()
				r.On("UpdateSettings", mock.Anything, mock.MatchedBy(func(st models.UserSettings) bool {
					return st.CustomDomain != nil && *st.CustomDomain == "links.example.com"
				})).Return(&models.UserSettings{UserID: "user1"}, nil).Once()
			},
		},
		{
			name: "pro user enables api access",
			req:  models.DummySettings{APIAccess: boolPtr(true)},
			setupMocks: func(r *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(proUser, nil).Once()
				current := models.DefaultSettings()
				current.UserID = "user1"
				r.On("GetSettings", mock.Anything, "user1").Return(&current, nil).Once()
				r.On("UpdateSettings", mock.Anything, mock.MatchedBy(func(st models.UserSettings) bool {
					return st.APIAccess
				})).Return(&models.UserSettings{UserID: "user1", APIAccess: true}, nil).Once()
			},
		},
		{
			name: "missing row is inserted with merged defaults",
			req:  models.DummySettings{PublicProfile: boolPtr(false)},
			setupMocks: func(r *RepoMock, _ *UsersMock) {
				r.On("GetSettings", mock.Anything, "user1").Return(nil, repository.ErrNotFound).Once()
				r.On("InsertSettings", mock.Anything, mock.MatchedBy(func(st models.UserSettings) bool {
					return st.UserID == "user1" && !st.PublicProfile
				})).Return(&models.UserSettings{UserID: "user1"}, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			svc := NewSettingsService(repo, users, newNoopLogger())

			tt.setupMocks(repo, users)

			got, err := svc.Update(context.Background(), "user1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, got)
			}

			repo.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestSettingsService_CreateAPIKey(t *testing.T) {
	freeUser := &models.User{UID: "user1", SubscriptionTier: models.TierFree}
	proUser := &models.User{UID: "user1", SubscriptionTier: models.TierPro}
	req := models.DummyAPIKey{KeyName: "ci"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, u *UsersMock)
		wantErr    error
	}{
		{
			name: "free user is rejected",
			setupMocks: func(_ *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(freeUser, nil).Once()
			},
			wantErr: ErrProRequired,
		},
		{
			name: "api access disabled",
			setupMocks: func(r *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(proUser, nil).Once()
				r.On("GetSettings", mock.Anything, "user1").
					Return(&models.UserSettings{UserID: "user1", APIAccess: false}, nil).Once()
			},
			wantErr: ErrAPIAccessDisabled,
		},
		{
			name: "success issues prefixed key",
			setupMocks: func(r *RepoMock, u *UsersMock) {
				u.On("GetUser", mock.Anything, "user1").Return(proUser, nil).Once()
				r.On("GetSettings", mock.Anything, "user1").
					Return(&models.UserSettings{UserID: "user1", APIAccess: true}, nil).Once()
				r.On("CreateAPIKey", mock.Anything, mock.MatchedBy(func(key models.APIKey) bool {
					return key.UserID == "user1" && key.KeyName == "ci" &&
						strings.HasPrefix(key.APIKey, apikey.Prefix) && key.IsActive
				})).Return(&models.CreatedAPIKey{ID: "key1", KeyName: "ci"}, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			users := new(UsersMock)
			svc := NewSettingsService(repo, users, newNoopLogger())

			tt.setupMocks(repo, users)

			created, err := svc.CreateAPIKey(context.Background(), "user1", req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, created)
			} else {
				assert.NoError(t, err)
				// значение токена возвращается только из этого вызова
				assert.True(t, strings.HasPrefix(created.APIKey, apikey.Prefix))
			}

			repo.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestSettingsService_RemoveAPIKey(t *testing.T) {
	t.Run("success remove", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSettingsService(repo, new(UsersMock), newNoopLogger())

		repo.On("DeleteAPIKey", mock.Anything, "user1", "key1").Return(1, nil).Once()
		assert.NoError(t, svc.RemoveAPIKey(context.Background(), "user1", "key1"))
	})

	t.Run("nothing deleted", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSettingsService(repo, new(UsersMock), newNoopLogger())

		repo.On("DeleteAPIKey", mock.Anything, "user1", "missing").Return(0, nil).Once()
		err := svc.RemoveAPIKey(context.Background(), "user1", "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("repo error", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewSettingsService(repo, new(UsersMock), newNoopLogger())

		repo.On("DeleteAPIKey", mock.Anything, "user1", "key1").Return(0, errors.New("db error")).Once()
		assert.Error(t, svc.RemoveAPIKey(context.Background(), "user1", "key1"))
	})
}
