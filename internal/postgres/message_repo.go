package postgres

import (
	"context"
	"fmt"

	"github.com/chatlab/chat-server/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(ctx context.Context, room, username, content string) (*domain.ChatMessage, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO messages (id, room, username, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, room, username, content, created_at
	`, uuid.New().String(), room, username, content)

	var m domain.ChatMessage
	if err := row.Scan(&m.ID, &m.Room, &m.Username, &m.Content, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// History returns room messages with cursor pagination (created_at,id DESC).
func (r *MessageRepository) History(ctx context.Context, room, before string, limit int) ([]domain.ChatMessage, string, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	cur, err := DecodeCursor(before)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}

	const query = `
		SELECT id, room, username, content, created_at
		FROM messages
		WHERE room = $1
		  AND (
		    $2::timestamptz IS NULL
		    OR created_at < $2
		    OR (created_at = $2 AND id < $3)
		  )
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, room, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var out []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.Room, &m.Username, &m.Content, &m.CreatedAt); err != nil {
			return nil, "", err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	var next string
	if len(out) == limit {
		last := out[len(out)-1]
		if c, e := EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID}); e == nil {
			next = c
		}
	}
	return out, next, nil
}
