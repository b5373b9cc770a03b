package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FrameType enumerates the inbound frame kinds. The dispatch in server.go
// switches exhaustively over these; anything else is rejected at parse time.
type FrameType string

const (
	FrameJoin   FrameType = "join"
	FrameChat   FrameType = "chat"
	FrameLeave  FrameType = "leave"
	FrameTyping FrameType = "typing"
)

// Outbound event types.
const (
	EventUserJoined = "user_joined"
	EventMessage    = "message"
	EventTyping     = "typing"
	EventUserLeft   = "user_left"
)

var ErrBadFrame = errors.New("bad frame")

// Frame is one inbound JSON message from a client.
type Frame struct {
	Type     FrameType `json:"type"`
	Room     string    `json:"room"`
	Username string    `json:"username"`
	Content  string    `json:"content,omitempty"`
}

// Event is one outbound JSON message to room members.
type Event struct {
	Type      string   `json:"type"`
	Username  string   `json:"username"`
	Users     []string `json:"users,omitempty"`
	Content   string   `json:"content,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// ParseFrame decodes and validates one inbound frame. Every error wraps
// ErrBadFrame; the caller drops the frame and keeps the connection open.
func ParseFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}

	f.Room = strings.TrimSpace(f.Room)
	f.Username = strings.TrimSpace(f.Username)

	switch f.Type {
	case FrameJoin, FrameLeave, FrameTyping:
		if f.Room == "" || f.Username == "" {
			return Frame{}, fmt.Errorf("%w: %s requires room and username", ErrBadFrame, f.Type)
		}
	case FrameChat:
		if f.Room == "" || f.Username == "" {
			return Frame{}, fmt.Errorf("%w: chat requires room and username", ErrBadFrame)
		}
		if strings.TrimSpace(f.Content) == "" {
			return Frame{}, fmt.Errorf("%w: chat requires content", ErrBadFrame)
		}
	default:
		return Frame{}, fmt.Errorf("%w: unknown type %q", ErrBadFrame, f.Type)
	}

	return f, nil
}
