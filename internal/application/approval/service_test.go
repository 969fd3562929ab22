package approval

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	domainApproval "github.com/edgeup/marketplace/internal/domain/approval"
	approvalMocks "github.com/edgeup/marketplace/internal/domain/approval/mocks"
	"github.com/edgeup/marketplace/internal/domain/notification"
	notificationMocks "github.com/edgeup/marketplace/internal/domain/notification/mocks"
	"github.com/edgeup/marketplace/internal/domain/user"
	userMocks "github.com/edgeup/marketplace/internal/domain/user/mocks"
)

type fixture struct {
	repo       *approvalMocks.MockRepository
	users      *userMocks.MockRepository
	dispatcher *notificationMocks.MockDispatcher
	service    *Service
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:       approvalMocks.NewMockRepository(ctrl),
		users:      new(userMocks.MockRepository),
		dispatcher: notificationMocks.NewMockDispatcher(ctrl),
	}
	f.service = NewService(f.repo, f.users, f.dispatcher, zerolog.Nop())
	return f
}

const pitch = "I restore vintage bikes and sell them locally."

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	actor := user.Actor{UserID: uuid.New(), Role: user.RoleUntrusted}

	t.Run("creates pending request", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetPendingForUser(ctx, actor.UserID).Return(nil, nil)
		f.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		req, err := f.service.Submit(ctx, actor, pitch)

		require.NoError(t, err)
		assert.Equal(t, domainApproval.StatusPending, req.Status)
		assert.Equal(t, actor.UserID, req.UserID)
	})

	t.Run("already trusted", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Submit(ctx, user.Actor{UserID: uuid.New(), Role: user.RoleTrusted}, pitch)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("one pending at a time", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetPendingForUser(ctx, actor.UserID).Return(&domainApproval.Request{RequestID: uuid.New()}, nil)

		_, err := f.service.Submit(ctx, actor, pitch)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("short pitch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Submit(ctx, actor, "hi")
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestService_Review(t *testing.T) {
	ctx := context.Background()
	admin := user.Actor{UserID: uuid.New(), Role: user.RoleAdmin}
	pendingRequest := func() *domainApproval.Request {
		return &domainApproval.Request{RequestID: uuid.New(), UserID: uuid.New(), Pitch: pitch, Status: domainApproval.StatusPending}
	}

	t.Run("approve promotes requester", func(t *testing.T) {
		f := newFixture(t)
		req := pendingRequest()
		requester := &user.User{UserID: req.UserID, Role: user.RoleUntrusted}

		f.repo.EXPECT().GetByID(ctx, req.RequestID).Return(req, nil)
		f.repo.EXPECT().Update(ctx, req).Return(true, nil)
		f.users.On("GetByID", ctx, req.UserID).Return(requester, nil)
		f.users.On("Update", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.Role == user.RoleTrusted
		})).Return(nil)
		f.dispatcher.EXPECT().
			Dispatch(ctx, gomock.Any()).
			Do(func(_ context.Context, events []notification.Event) {
				require.Len(t, events, 1)
				assert.Equal(t, req.UserID, events[0].UserID)
				assert.Equal(t, notification.TypeSystem, events[0].Type)
			})

		got, err := f.service.Review(ctx, admin, req.RequestID, domainApproval.DecisionApprove)

		require.NoError(t, err)
		assert.Equal(t, domainApproval.StatusApproved, got.Status)
		require.NotNil(t, got.ReviewedBy)
		assert.Equal(t, admin.UserID, *got.ReviewedBy)
		f.users.AssertExpectations(t)
	})

	t.Run("reject leaves role untouched", func(t *testing.T) {
		f := newFixture(t)
		req := pendingRequest()
		f.repo.EXPECT().GetByID(ctx, req.RequestID).Return(req, nil)
		f.repo.EXPECT().Update(ctx, req).Return(true, nil)
		f.dispatcher.EXPECT().Dispatch(ctx, gomock.Any())

		got, err := f.service.Review(ctx, admin, req.RequestID, domainApproval.DecisionReject)

		require.NoError(t, err)
		assert.Equal(t, domainApproval.StatusRejected, got.Status)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("already decided", func(t *testing.T) {
		f := newFixture(t)
		req := pendingRequest()
		req.Status = domainApproval.StatusRejected
		f.repo.EXPECT().GetByID(ctx, req.RequestID).Return(req, nil)

		_, err := f.service.Review(ctx, admin, req.RequestID, domainApproval.DecisionApprove)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("lost race", func(t *testing.T) {
		f := newFixture(t)
		req := pendingRequest()
		f.repo.EXPECT().GetByID(ctx, req.RequestID).Return(req, nil)
		f.repo.EXPECT().Update(ctx, req).Return(false, nil)

		_, err := f.service.Review(ctx, admin, req.RequestID, domainApproval.DecisionApprove)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("non-admin", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Review(ctx, user.Actor{UserID: uuid.New(), Role: user.RoleTrusted}, uuid.New(), domainApproval.DecisionApprove)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := user.Actor{UserID: uuid.New(), Role: user.RoleUntrusted}

	f.repo.EXPECT().
		List(ctx, domainApproval.Filter{UserID: &actor.UserID}, 20, 0).
		Return([]*domainApproval.Request{}, nil)

	_, err := f.service.List(ctx, actor, domainApproval.Filter{}, 20, 0)
	require.NoError(t, err)
}
