package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ratnamishratech/chat-relay/internal/config"
	"github.com/ratnamishratech/chat-relay/internal/observability"
	"github.com/ratnamishratech/chat-relay/internal/relay"
	"github.com/ratnamishratech/chat-relay/internal/server"
	"github.com/ratnamishratech/chat-relay/internal/ws"
)

func main() {
	cfg := config.Load()

	// Observability
	observability.InitLogger(cfg.ServiceName)
	log := observability.Log

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer tp.Shutdown(context.Background())
	}

	ctx, cancel := setupSignalHandler(log)
	defer cancel()

	// Relay core
	presence := relay.NewPresence()
	registry := relay.NewRegistry(presence)
	rooms := relay.NewRooms(cfg.HistoryLimit)
	hub := relay.NewHub(log, registry, rooms, presence, cfg.ServiceName)
	wsHandler := ws.NewHandler(hub, cfg.SendQueueSize, cfg.ServiceName)

	// Servers
	obsSrv := initObservabilityServer(cfg)
	mainSrv := server.New(":"+cfg.HTTPPort, initMainRouter(cfg, wsHandler))

	startServers(cfg, obsSrv, mainSrv, log)

	<-ctx.Done()
	performGracefulShutdown(obsSrv, mainSrv, wsHandler, log)
}

func setupSignalHandler(log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received signal, initiating shutdown", zap.String("signal", sig.String()))
		cancel()
	}()
	return ctx, cancel
}

func initObservabilityServer(cfg *config.Config) *http.Server {
	mux := chi.NewRouter()
	mux.Use(observability.MetricsMiddleware(cfg.ServiceName))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health/live", observability.HealthLiveHandler)
	mux.Get("/health/ready", observability.HealthReadyHandler())
	return &http.Server{Addr: cfg.ObsHTTPAddr, Handler: mux}
}

func initMainRouter(cfg *config.Config, wsHandler *ws.Handler) http.Handler {
	mux := chi.NewRouter()
	mux.Handle("/ws", wsHandler)
	mux.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	return mux
}

func startServers(cfg *config.Config, obsSrv *http.Server, mainSrv *server.Server, log *zap.Logger) {
	go func() {
		log.Info("starting observability server", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("observability server error", zap.Error(err))
		}
	}()
	go func() {
		log.Info("starting main server", zap.String("port", cfg.HTTPPort))
		if err := mainSrv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()
}

func performGracefulShutdown(obs *http.Server, srv *server.Server, wsHandler *ws.Handler, log *zap.Logger) {
	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error during main server shutdown", zap.Error(err))
	}
	if err := obs.Shutdown(ctx); err != nil {
		log.Error("error during observability server shutdown", zap.Error(err))
	}
	wsHandler.CloseAll()
	log.Info("shutdown complete, exiting")
}
