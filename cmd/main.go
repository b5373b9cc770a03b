package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chatlab/chat-server/config"
	"github.com/chatlab/chat-server/internal/postgres"
	"github.com/chatlab/chat-server/internal/service"
	httpx "github.com/chatlab/chat-server/internal/transport/http"
	"github.com/chatlab/chat-server/internal/transport/ws"
	"github.com/chatlab/chat-server/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-server",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// --- repos & services ---
	roomRepo := postgres.NewRoomRepository(db.Pool)
	msgRepo := postgres.NewMessageRepository(db.Pool)
	roomSvc := service.NewRoomService(roomRepo)
	chatSvc := service.NewChatService(msgRepo)

	// --- WS hub & server ---
	hub := ws.NewHub()
	wsServer := ws.NewServer(hub, chatSvc, ws.Options{
		PingInterval: cfg.PingInterval(),
		IdleTimeout:  cfg.IdleTimeout(),
		MaxFrameSize: cfg.WS.MaxFrameBytes,
	})

	// --- HTTP ---
	handler := httpx.NewHandler(roomSvc, chatSvc)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
