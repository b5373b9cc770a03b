package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chatlab/chat-server/internal/domain"
	"github.com/chatlab/chat-server/internal/postgres"

	"github.com/go-chi/chi/v5"
)

type RoomSvc interface {
	CreateRoom(ctx context.Context, name, description string) (*domain.Room, error)
	GetRoom(ctx context.Context, name string) (*domain.Room, error)
	ListRooms(ctx context.Context) ([]domain.Room, error)
}

type ChatSvc interface {
	History(ctx context.Context, room, before string, limit int) ([]domain.ChatMessage, string, error)
}

// Handler is the HTTP side of the system: room management and message
// history. It shares storage with the broadcast server, never its in-memory
// membership state.
type Handler struct {
	roomSvc RoomSvc
	chatSvc ChatSvc
}

func NewHandler(room RoomSvc, chat ChatSvc) *Handler {
	return &Handler{roomSvc: room, chatSvc: chat}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/rooms
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	room, err := h.roomSvc.CreateRoom(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, domain.ErrRoomExists) {
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "room already exists"})
			return
		}
		slog.Error("handler.CreateRoom", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, RoomItem{
		Name:        room.Name,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
	})
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomSvc.ListRooms(r.Context())
	if err != nil {
		slog.Error("handler.ListRooms", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := RoomsListResponse{Items: make([]RoomItem, 0, len(rooms))}
	for _, rm := range rooms {
		resp.Items = append(resp.Items, RoomItem{
			Name:        rm.Name,
			Description: rm.Description,
			CreatedAt:   rm.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/rooms/{name}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	room, err := h.roomSvc.GetRoom(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		slog.Error("handler.GetRoom", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, RoomItem{
		Name:        room.Name,
		Description: room.Description,
		CreatedAt:   room.CreatedAt,
	})
}

// GET /api/rooms/{name}/messages?limit=&before=
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	before := r.URL.Query().Get("before")
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	items, next, err := h.chatSvc.History(r.Context(), name, before, limit)
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.GetMessages", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := MessagesResponse{Items: make([]MessageItem, 0, len(items)), NextCursor: next}
	for _, m := range items {
		resp.Items = append(resp.Items, MessageItem{
			ID:        m.ID,
			Room:      m.Room,
			Username:  m.Username,
			Content:   m.Content,
			CreatedAt: m.CreatedAt.Truncate(time.Millisecond),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
