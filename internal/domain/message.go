package domain

import "time"

// ChatMessage is immutable once stored. The broadcast path only ever
// serializes it, never mutates it.
type ChatMessage struct {
	ID        string    `db:"id"`
	Room      string    `db:"room"`
	Username  string    `db:"username"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
