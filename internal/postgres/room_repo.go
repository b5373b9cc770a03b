package postgres

import (
	"context"
	"errors"

	"github.com/chatlab/chat-server/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (name, description)
		VALUES ($1, $2)
		RETURNING created_at`
	err := r.db.QueryRow(ctx, query, room.Name, room.Description).Scan(&room.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrRoomExists
		}
		return err
	}
	return nil
}

func (r *RoomRepository) Get(ctx context.Context, name string) (*domain.Room, error) {
	var rm domain.Room
	query := `SELECT name, description, created_at FROM rooms WHERE name=$1`
	err := r.db.QueryRow(ctx, query, name).
		Scan(&rm.Name, &rm.Description, &rm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// List returns every room. Room count is small and bounded by configuration,
// so no pagination here.
func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, description, created_at FROM rooms ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.Name, &rm.Description, &rm.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}
