package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/notification"
)

const notificationColumns = `id, notification_id, user_id, notification_type, message, is_read, created_at`

// NotificationRepository implements notification.Repository.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO notifications
		(notification_id, user_id, notification_type, message, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, n.NotificationID, n.UserID, n.Type, n.Message, n.IsRead, n.CreatedAt).Scan(&n.ID)
	return mapError("notifications.create", err)
}

func (r *NotificationRepository) GetByID(ctx context.Context, notificationID uuid.UUID) (*notification.Notification, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE notification_id=$1`, notificationID)
	n, err := scanNotification(row)
	return n, mapError("notifications.get", err)
}

func (r *NotificationRepository) List(ctx context.Context, filter notification.Filter, limit, offset int) ([]*notification.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1`
	args := []interface{}{filter.UserID}
	idx := 2
	if filter.UnreadOnly {
		query += " AND NOT is_read"
	}
	if filter.Type != nil {
		query += " AND notification_type=$" + itoa(idx)
		args = append(args, *filter.Type)
		idx++
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("notifications.list", err)
	}
	defer rows.Close()
	var out []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, mapError("notifications.list", err)
		}
		out = append(out, n)
	}
	return out, mapError("notifications.list", rows.Err())
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE notification_id=$1`, notificationID)
	return mapError("notifications.mark_read", err)
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	res, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read=TRUE WHERE user_id=$1 AND NOT is_read`, userID)
	if err != nil {
		return 0, mapError("notifications.mark_all_read", err)
	}
	return int(res.RowsAffected()), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, mapError("notifications.count_unread", err)
	}
	return count, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	if err := row.Scan(&n.ID, &n.NotificationID, &n.UserID, &n.Type, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
