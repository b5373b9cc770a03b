package service

import (
	"context"
	"errors"
	"strings"

	"github.com/chatlab/chat-server/internal/domain"
)

type roomStore interface {
	Create(ctx context.Context, room *domain.Room) error
	Get(ctx context.Context, name string) (*domain.Room, error)
	List(ctx context.Context) ([]domain.Room, error)
}

type RoomService struct {
	rooms roomStore
}

func NewRoomService(rooms roomStore) *RoomService {
	return &RoomService{rooms: rooms}
}

func (s *RoomService) CreateRoom(ctx context.Context, name, description string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("room name is required")
	}

	room := &domain.Room{Name: name, Description: strings.TrimSpace(description)}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, name string) (*domain.Room, error) {
	return s.rooms.Get(ctx, name)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.List(ctx)
}
