package repository

import (
	"context"

	"fincompare/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var chatColumns = []string{"id", "user_id", "session_id", "role", "content", "created_at"}

type ChatRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewChatRepository(db *pgxpool.Pool, logger *zap.Logger) *ChatRepository {
	return &ChatRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ChatRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	query := squirrel.Insert("chat_messages").
		Columns(chatColumns...).
		Values(msg.ID, msg.UserID, msg.SessionID, msg.Role, msg.Content, msg.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Recent returns the newest messages for a session, most recent first.
func (r *ChatRepository) Recent(ctx context.Context, userID uuid.UUID, sessionID string, limit uint64) ([]*models.ChatMessage, error) {
	return r.list(ctx, userID, sessionID, "created_at DESC", limit)
}

// List returns a session's messages in chronological order. A zero limit
// means no limit.
func (r *ChatRepository) List(ctx context.Context, userID uuid.UUID, sessionID string, limit uint64) ([]*models.ChatMessage, error) {
	return r.list(ctx, userID, sessionID, "created_at ASC", limit)
}

func (r *ChatRepository) list(ctx context.Context, userID uuid.UUID, sessionID, order string, limit uint64) ([]*models.ChatMessage, error) {
	query := squirrel.Select(chatColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy(order).
		PlaceholderFormat(squirrel.Dollar)

	if sessionID != "" {
		query = query.Where(squirrel.Eq{"session_id": sessionID})
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.SessionID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

// ClearSession removes a session's history. An empty session ID clears the
// user's entire history.
func (r *ChatRepository) ClearSession(ctx context.Context, userID uuid.UUID, sessionID string) error {
	query := squirrel.Delete("chat_messages").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	if sessionID != "" {
		query = query.Where(squirrel.Eq{"session_id": sessionID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
