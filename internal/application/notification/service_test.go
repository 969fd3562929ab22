package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/edgeup/marketplace/internal/domain/apperror"
	"github.com/edgeup/marketplace/internal/domain/notification"
	notificationMocks "github.com/edgeup/marketplace/internal/domain/notification/mocks"
)

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and publishes every event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		publisher := notificationMocks.NewMockPublisher(ctrl)
		dispatcher := NewDispatcher(repo, publisher, zerolog.Nop())

		buyer, seller := uuid.New(), uuid.New()
		events := []notification.Event{
			notification.NewEvent(notification.KindOfferAccepted, buyer, notification.TypeOrder, "Offer accepted", nil),
			notification.NewEvent(notification.KindOrderCreated, seller, notification.TypeOrder, "Order created", nil),
		}

		var stored []uuid.UUID
		repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, n *notification.Notification) error {
				assert.False(t, n.IsRead)
				assert.Equal(t, notification.TypeOrder, n.Type)
				stored = append(stored, n.UserID)
				return nil
			}).
			Times(2)
		publisher.EXPECT().Publish(ctx, events[0]).Return(nil)
		publisher.EXPECT().Publish(ctx, events[1]).Return(nil)

		dispatcher.Dispatch(ctx, events)

		assert.Equal(t, []uuid.UUID{buyer, seller}, stored)
	})

	t.Run("store failure does not stop delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		publisher := notificationMocks.NewMockPublisher(ctrl)
		dispatcher := NewDispatcher(repo, publisher, zerolog.Nop())

		events := []notification.Event{
			notification.NewEvent(notification.KindOfferRejected, uuid.New(), notification.TypeOrder, "Rejected", nil),
			notification.NewEvent(notification.KindOrderCreated, uuid.New(), notification.TypeOrder, "Created", nil),
		}

		gomock.InOrder(
			repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("db down")),
			publisher.EXPECT().Publish(ctx, events[0]).Return(errors.New("broker down")),
			repo.EXPECT().Create(ctx, gomock.Any()).Return(nil),
			publisher.EXPECT().Publish(ctx, events[1]).Return(nil),
		)

		dispatcher.Dispatch(ctx, events)
	})

	t.Run("invalid event is skipped but still published", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		publisher := notificationMocks.NewMockPublisher(ctrl)
		dispatcher := NewDispatcher(repo, publisher, zerolog.Nop())

		ev := notification.NewEvent(notification.KindOrderStatus, uuid.New(), notification.TypeOrder, "   ", nil)
		publisher.EXPECT().Publish(ctx, ev).Return(nil)

		dispatcher.Dispatch(ctx, []notification.Event{ev})
	})

	t.Run("nil publisher", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		dispatcher := NewDispatcher(repo, nil, zerolog.Nop())

		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		dispatcher.Dispatch(ctx, []notification.Event{
			notification.NewEvent(notification.KindTrustedDecision, uuid.New(), notification.TypeSystem, "Approved", nil),
		})
	})
}

func TestService_MarkRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("marks unread notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		n, err := notification.NewNotification(userID, notification.TypePayment, "Order paid")
		require.NoError(t, err)
		repo.EXPECT().GetByID(ctx, n.NotificationID).Return(n, nil)
		repo.EXPECT().MarkRead(ctx, n.NotificationID).Return(nil)

		got, err := service.MarkRead(ctx, userID, n.NotificationID)

		require.NoError(t, err)
		assert.True(t, got.IsRead)
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		n, _ := notification.NewNotification(userID, notification.TypeOrder, "x")
		n.IsRead = true
		repo.EXPECT().GetByID(ctx, n.NotificationID).Return(n, nil)

		_, err := service.MarkRead(ctx, userID, n.NotificationID)
		require.NoError(t, err)
	})

	t.Run("someone else's notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := notificationMocks.NewMockRepository(ctrl)
		service := NewService(repo, zerolog.Nop())

		n, _ := notification.NewNotification(uuid.New(), notification.TypeOrder, "x")
		repo.EXPECT().GetByID(ctx, n.NotificationID).Return(n, nil)

		_, err := service.MarkRead(ctx, userID, n.NotificationID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestService_ListAndCounts(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	ctrl := gomock.NewController(t)
	repo := notificationMocks.NewMockRepository(ctrl)
	service := NewService(repo, zerolog.Nop())

	repo.EXPECT().
		List(ctx, notification.Filter{UserID: userID, UnreadOnly: true}, 10, 5).
		Return([]*notification.Notification{{UserID: userID}}, nil)
	repo.EXPECT().CountUnread(ctx, userID).Return(3, nil)
	repo.EXPECT().MarkAllRead(ctx, userID).Return(3, nil)

	list, err := service.ListNotifications(ctx, userID, true, 10, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	count, err := service.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	marked, err := service.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, marked)
}
