package http

import (
	"net/http"
	"time"

	"github.com/chatlab/chat-server/internal/metrics"
	"github.com/chatlab/chat-server/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// WS endpoint
	r.Get("/ws", wsServer.HandleWS)

	r.Group(func(api chi.Router) {
		api.Use(chimw.Timeout(30 * time.Second))

		api.Route("/api/rooms", func(rm chi.Router) {
			rm.Post("/", h.CreateRoom)
			rm.Get("/", h.ListRooms)

			rm.Route("/{name}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Get("/messages", h.GetMessages)
			})
		})
	})

	r.Handle("/metrics", metrics.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
