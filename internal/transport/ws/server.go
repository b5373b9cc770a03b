package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/chatlab/chat-server/internal/domain"
	"github.com/chatlab/chat-server/internal/metrics"

	"github.com/gorilla/websocket"
)

// ChatSvc persists chat messages. Persistence is best-effort: a save failure
// is logged and the message is still broadcast.
type ChatSvc interface {
	Save(ctx context.Context, room, username, content string) (*domain.ChatMessage, error)
}

type Options struct {
	PingInterval time.Duration // ping cadence on the write side
	IdleTimeout  time.Duration // read deadline, refreshed by frames and pongs
	MaxFrameSize int64
}

func (o *Options) defaults() {
	if o.PingInterval <= 0 {
		o.PingInterval = 15 * time.Second
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 2 * o.PingInterval
	}
	if o.MaxFrameSize <= 0 {
		o.MaxFrameSize = 1 << 20
	}
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	chatSvc  ChatSvc
	opts     Options
}

func NewServer(hub *Hub, chat ChatSvc, opts Options) *Server {
	opts.defaults()
	return &Server{
		hub:     hub,
		chatSvc: chat,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// WS endpoint: GET /ws. The client identifies itself with a join frame after
// the handshake; the URL carries nothing.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWSConn(conn)
	metrics.ConnectionsActive.Inc()

	go s.writeLoop(c)
	s.readLoop(r.Context(), c)

	// Single exit point for every way a connection ends: explicit leave
	// already emptied the hub entry, so the disconnect below is a no-op then.
	s.disconnect(c)
	_ = c.Close()
	metrics.ConnectionsActive.Dec()
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	c.conn.SetReadLimit(s.opts.MaxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(s.opts.IdleTimeout))

		f, err := ParseFrame(data)
		if err != nil {
			slog.Debug("ws frame dropped", "err", err)
			metrics.FramesDropped.Inc()
			continue
		}
		s.dispatch(ctx, c, f)
	}
}

// dispatch routes one valid frame. It takes the Conn interface so the
// handlers can be exercised without a live socket.
func (s *Server) dispatch(ctx context.Context, c Conn, f Frame) {
	switch f.Type {
	case FrameJoin:
		s.handleJoin(c, f)
	case FrameChat:
		s.handleChat(ctx, c, f)
	case FrameTyping:
		s.handleTyping(c, f)
	case FrameLeave:
		s.disconnect(c)
	}
}

func (s *Server) handleJoin(c Conn, f Frame) {
	s.hub.Join(c, f.Room, f.Username)
	s.hub.Broadcast(f.Room, Event{
		Type:     EventUserJoined,
		Username: f.Username,
		Users:    s.hub.Usernames(f.Room),
	})
	metrics.EventsBroadcast.Inc()
}

func (s *Server) handleChat(ctx context.Context, c Conn, f Frame) {
	ts := time.Now()
	if s.chatSvc != nil {
		if msg, err := s.chatSvc.Save(ctx, f.Room, f.Username, f.Content); err != nil {
			// Deliver first, persist best-effort: a lost stored message is
			// tolerable, a stalled conversation is not.
			slog.Warn("ws chat save failed", "room", f.Room, "user", f.Username, "err", err)
		} else {
			ts = msg.CreatedAt
		}
	}

	s.hub.Broadcast(f.Room, Event{
		Type:      EventMessage,
		Username:  f.Username,
		Content:   f.Content,
		Timestamp: ts.Format("15:04"),
	})
	metrics.EventsBroadcast.Inc()
}

func (s *Server) handleTyping(c Conn, f Frame) {
	s.hub.BroadcastExcept(f.Room, c, Event{
		Type:     EventTyping,
		Username: f.Username,
	})
	metrics.EventsBroadcast.Inc()
}

// disconnect is the one place hub entries are removed, whether the client
// sent a leave frame or the socket just died. Idempotent: the second call
// for the same handle finds no entry and broadcasts nothing.
func (s *Server) disconnect(c Conn) {
	room, username, ok := s.hub.Leave(c)
	if !ok {
		return
	}
	s.hub.Broadcast(room, Event{
		Type:     EventUserLeft,
		Username: username,
		Users:    s.hub.Usernames(room),
	})
	metrics.EventsBroadcast.Inc()
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

var errConnClosed = errors.New("connection closed")

// wsConn wraps one gorilla connection. A 1-slot channel serializes writers;
// the closed channel makes Send fail fast on stale handles.
type wsConn struct {
	conn   *websocket.Conn
	sendMu chan struct{}
	closed chan struct{}
}

func newWSConn(c *websocket.Conn) *wsConn {
	return &wsConn{
		conn:   c,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(ev Event) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(ev)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}
