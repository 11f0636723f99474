package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	libjwt "github.com/magabrotheeeer/referral-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/referral-tracker/internal/lib/password"
	"github.com/magabrotheeeer/referral-tracker/internal/models"
	"github.com/magabrotheeeer/referral-tracker/internal/storage/repository"
)

type UsersMock struct{ mock.Mock }

func (m *UsersMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *UsersMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestMaker() libjwt.Maker {
	return libjwt.NewJWTMaker("test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	req := models.DummyRegister{
		Email:    "new@example.com",
		Username: "newuser",
		Password: "s3cret-pass",
	}

	t.Run("success hashes password before saving", func(t *testing.T) {
		users := new(UsersMock)
		svc := NewAuthService(users, newTestMaker())

		users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == req.Email && u.Username == req.Username &&
				u.SubscriptionTier == models.TierFree &&
				u.PasswordHash != req.Password &&
				password.CompareHash(u.PasswordHash, req.Password) == nil
		})).Return("uid-1", nil).Once()

		uid, err := svc.Register(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", uid)

		users.AssertExpectations(t)
	})

	t.Run("duplicate user", func(t *testing.T) {
		users := new(UsersMock)
		svc := NewAuthService(users, newTestMaker())

		users.On("RegisterUser", mock.Anything, mock.Anything).
			Return("", repository.ErrDuplicate).Once()

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("correct-pass")
	require.NoError(t, err)
	stored := &models.User{
		UID:          "uid-1",
		Username:     "user1",
		PasswordHash: hash,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(u *UsersMock)
		wantErr    error
	}{
		{
			name:     "success returns token and user",
			username: "user1",
			password: "correct-pass",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "user1").Return(stored, nil).Once()
			},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "correct-pass",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "user1",
			password: "wrong-pass",
			setupMocks: func(u *UsersMock) {
				u.On("GetUserByUsername", mock.Anything, "user1").Return(stored, nil).Once()
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			svc := NewAuthService(users, newTestMaker())

			tt.setupMocks(users)

			token, user, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, stored, user)
			}

			users.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	users := new(UsersMock)
	svc := NewAuthService(users, newTestMaker())

	maker := newTestMaker()
	token, err := maker.GenerateToken("user1", "uid-1")
	require.NoError(t, err)

	user, ok, err := svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user1", user.Username)
	assert.Equal(t, "uid-1", user.UID)

	_, _, err = svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}
