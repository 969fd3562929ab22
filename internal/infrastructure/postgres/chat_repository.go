package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edgeup/marketplace/internal/domain/chat"
)

const (
	conversationColumns = `id, conversation_id, seller_id, buyer_id, created_at`
	messageColumns      = `id, message_id, conversation_id, from_user, to_user, body, is_read, created_at`
)

// ChatRepository implements chat.Repository.
type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

func (r *ChatRepository) GetOrCreateConversation(ctx context.Context, conv *chat.Conversation) (*chat.Conversation, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO conversations (conversation_id, seller_id, buyer_id, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (seller_id, buyer_id) DO NOTHING
	`, conv.ConversationID, conv.SellerID, conv.BuyerID, conv.CreatedAt)
	if err != nil {
		return nil, mapError("conversations.create", err)
	}
	row := r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE seller_id=$1 AND buyer_id=$2`, conv.SellerID, conv.BuyerID)
	c, err := scanConversation(row)
	return c, mapError("conversations.get", err)
}

func (r *ChatRepository) GetConversation(ctx context.Context, conversationID uuid.UUID) (*chat.Conversation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE conversation_id=$1`, conversationID)
	c, err := scanConversation(row)
	return c, mapError("conversations.get", err)
}

func (r *ChatRepository) ListConversations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*chat.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE seller_id=$1 OR buyer_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, mapError("conversations.list", err)
	}
	defer rows.Close()
	var out []*chat.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, mapError("conversations.list", err)
		}
		out = append(out, c)
	}
	return out, mapError("conversations.list", rows.Err())
}

func (r *ChatRepository) CreateMessage(ctx context.Context, msg *chat.Message) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (message_id, conversation_id, from_user, to_user, body, is_read, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`, msg.MessageID, msg.ConversationID, msg.FromUser, msg.ToUser, msg.Body, msg.IsRead, msg.CreatedAt).Scan(&msg.ID)
	return mapError("messages.create", err)
}

func (r *ChatRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*chat.Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE conversation_id=$1
		ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3
	`, conversationID, limit, offset)
	if err != nil {
		return nil, mapError("messages.list", err)
	}
	defer rows.Close()
	var out []*chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.MessageID, &m.ConversationID, &m.FromUser, &m.ToUser, &m.Body, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, mapError("messages.list", err)
		}
		out = append(out, &m)
	}
	return out, mapError("messages.list", rows.Err())
}

func (r *ChatRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE messages SET is_read=TRUE
		WHERE conversation_id=$1 AND to_user=$2 AND NOT is_read
	`, conversationID, readerID)
	if err != nil {
		return 0, mapError("messages.mark_read", err)
	}
	return int(res.RowsAffected()), nil
}

func scanConversation(row pgx.Row) (*chat.Conversation, error) {
	var c chat.Conversation
	if err := row.Scan(&c.ID, &c.ConversationID, &c.SellerID, &c.BuyerID, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
