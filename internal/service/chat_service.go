package service

import (
	"context"
	"errors"
	"strings"

	"github.com/chatlab/chat-server/internal/domain"
)

const maxMessageLen = 4000

type messageStore interface {
	Save(ctx context.Context, room, username, content string) (*domain.ChatMessage, error)
	History(ctx context.Context, room, before string, limit int) ([]domain.ChatMessage, string, error)
}

// ChatService is the persistence adapter for chat messages. The broadcast
// path calls Save best-effort; the HTTP app reads History.
type ChatService struct {
	messages messageStore
}

func NewChatService(messages messageStore) *ChatService {
	return &ChatService{messages: messages}
}

func (s *ChatService) Save(ctx context.Context, room, username, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("empty message")
	}
	if len(content) > maxMessageLen {
		return nil, errors.New("message too long")
	}
	return s.messages.Save(ctx, room, username, content)
}

func (s *ChatService) History(ctx context.Context, room, before string, limit int) ([]domain.ChatMessage, string, error) {
	return s.messages.History(ctx, room, before, limit)
}
