package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domainSession "github.com/edgeup/marketplace/internal/domain/session"
	sessionMocks "github.com/edgeup/marketplace/internal/domain/session/mocks"
	domainUser "github.com/edgeup/marketplace/internal/domain/user"
	userMocks "github.com/edgeup/marketplace/internal/domain/user/mocks"
)

var testSecret = []byte("test-secret")

func newTestService() (*Service, *userMocks.MockRepository, *sessionMocks.MockRepository) {
	users := new(userMocks.MockRepository)
	sessions := new(sessionMocks.MockRepository)
	return NewService(users, sessions, testSecret, time.Hour, zerolog.Nop()), users, sessions
}

func testUser(t *testing.T) *domainUser.User {
	hash, err := domainUser.HashPassword("hunter22x")
	require.NoError(t, err)
	return &domainUser.User{
		UserID:       uuid.New(),
		Email:        "ana@example.com",
		Name:         "Ana",
		PasswordHash: hash,
		Role:         domainUser.RoleTrusted,
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates untrusted user", func(t *testing.T) {
		service, users, _ := newTestService()
		users.On("GetByEmail", ctx, "ana@example.com").Return(nil, nil)
		users.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := service.Register(ctx, RegisterInput{
			Email:    "  Ana@Example.com ",
			Password: "s3cretpass",
			Name:     "Ana",
			Country:  "PT",
			City:     "Porto",
		})

		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", u.Email)
		assert.Equal(t, domainUser.RoleUntrusted, u.Role)
		assert.True(t, domainUser.VerifyPassword(u.PasswordHash, "s3cretpass"))
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		service, users, _ := newTestService()
		users.On("GetByEmail", ctx, "ana@example.com").Return(&domainUser.User{}, nil)

		_, err := service.Register(ctx, RegisterInput{Email: "ana@example.com", Password: "s3cretpass", Name: "Ana"})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("weak password", func(t *testing.T) {
		service, _, _ := newTestService()
		_, err := service.Register(ctx, RegisterInput{Email: "ana@example.com", Password: "short", Name: "Ana"})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	in := RegisterInput{Email: "root@example.com", Password: "bootstrap9", Name: "Root"}

	t.Run("first user becomes admin", func(t *testing.T) {
		service, users, _ := newTestService()
		users.On("Count", ctx).Return(0, nil)
		users.On("GetByEmail", ctx, "root@example.com").Return(nil, nil)
		users.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := service.BootstrapAdmin(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, domainUser.RoleAdmin, u.Role)
	})

	t.Run("only once", func(t *testing.T) {
		service, users, _ := newTestService()
		users.On("Count", ctx).Return(3, nil)

		_, err := service.BootstrapAdmin(ctx, in)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("token round trip", func(t *testing.T) {
		service, users, sessions := newTestService()
		u := testUser(t)
		users.On("GetByEmail", ctx, u.Email).Return(u, nil)
		users.On("GetByID", ctx, u.UserID).Return(u, nil)

		var created *domainSession.Session
		sessions.On("Create", ctx, mock.AnythingOfType("*session.Session")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domainSession.Session) }).
			Return(nil)

		res, err := service.Login(ctx, "ANA@example.com", "hunter22x", nil, nil)
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)
		assert.Equal(t, created, res.Session)

		sessions.On("GetByID", ctx, created.SessionID).Return(created, nil)
		sessions.On("UpdateLastSeen", ctx, created.SessionID).Return(nil)

		got, sess, err := service.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, u.UserID, got.UserID)
		assert.Equal(t, created.SessionID, sess.SessionID)
		sessions.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, users, _ := newTestService()
		u := testUser(t)
		users.On("GetByEmail", ctx, u.Email).Return(u, nil)

		_, err := service.Login(ctx, u.Email, "wrongpass1", nil, nil)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		service, _, _ := newTestService()
		other := NewService(nil, nil, []byte("other"), time.Hour, zerolog.Nop())
		u := testUser(t)
		token, err := other.sign(u, &domainSession.Session{
			SessionID: uuid.New(),
			UserID:    u.UserID,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		})
		require.NoError(t, err)

		_, _, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("expired token", func(t *testing.T) {
		service, _, _ := newTestService()
		u := testUser(t)
		past := time.Now().UTC().Add(-2 * time.Hour)
		token, err := service.sign(u, &domainSession.Session{
			SessionID: uuid.New(),
			UserID:    u.UserID,
			CreatedAt: past,
			ExpiresAt: past.Add(time.Hour),
		})
		require.NoError(t, err)

		_, _, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("revoked session", func(t *testing.T) {
		service, _, sessions := newTestService()
		u := testUser(t)
		sess := &domainSession.Session{
			SessionID: uuid.New(),
			UserID:    u.UserID,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
		token, err := service.sign(u, sess)
		require.NoError(t, err)
		sessions.On("GetByID", ctx, sess.SessionID).Return(nil, nil)

		_, _, err = service.Authenticate(ctx, token)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("expired session is removed and delete failures are logged", func(t *testing.T) {
		var logs bytes.Buffer
		users := new(userMocks.MockRepository)
		sessions := new(sessionMocks.MockRepository)
		service := NewService(users, sessions, testSecret, time.Hour, zerolog.New(&logs))
		u := testUser(t)
		issued := &domainSession.Session{
			SessionID: uuid.New(),
			UserID:    u.UserID,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: time.Now().UTC().Add(time.Hour),
		}
		token, err := service.sign(u, issued)
		require.NoError(t, err)

		stored := *issued
		stored.ExpiresAt = time.Now().UTC().Add(-time.Minute)
		sessions.On("GetByID", ctx, issued.SessionID).Return(&stored, nil)
		sessions.On("DeleteByID", ctx, issued.SessionID).Return(errors.New("connection reset"))

		_, _, err = service.Authenticate(ctx, token)

		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		sessions.AssertExpectations(t)
		assert.Contains(t, logs.String(), "failed to delete expired session")
		assert.Contains(t, logs.String(), issued.SessionID.String())
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("missing and garbage tokens", func(t *testing.T) {
		service, _, _ := newTestService()
		_, _, err := service.Authenticate(ctx, "")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
		_, _, err = service.Authenticate(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	service, _, sessions := newTestService()
	u := testUser(t)
	sess := &domainSession.Session{
		SessionID: uuid.New(),
		UserID:    u.UserID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	token, err := service.sign(u, sess)
	require.NoError(t, err)
	sessions.On("DeleteByID", ctx, sess.SessionID).Return(nil)

	require.NoError(t, service.Logout(ctx, token))
	require.NoError(t, service.Logout(ctx, "garbage"))
	sessions.AssertNumberOfCalls(t, "DeleteByID", 1)
}

func TestService_CleanupExpiredSessions(t *testing.T) {
	ctx := context.Background()
	service, _, sessions := newTestService()
	sessions.On("DeleteExpired", ctx).Return(4, nil)

	count, err := service.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
