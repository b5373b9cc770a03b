package domain

import "time"

// Room is a named broadcast channel. Persistent identity lives in storage;
// live membership is tracked separately by the websocket hub.
type Room struct {
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}
