package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giftwheel/internal/config"
	"giftwheel/internal/game"
	"giftwheel/internal/handlers"
	"giftwheel/internal/logger"
	"giftwheel/internal/metrics"
)

func main() {
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, "giftwheel", cfg.Version, cfg.Environment, false))

	wheelCfg, err := config.LoadWheel(cfg.WheelConfigPath)
	if err != nil {
		slog.Warn("falling back to the default wheel", "path", cfg.WheelConfigPath, "error", err)
		wheelCfg = config.DefaultWheel()
	}
	settings := wheelCfg.GameSettings(cfg)
	store := game.NewStore(settings)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		slog.Error("failed to open static files", "error", err)
		os.Exit(1)
	}

	homeHandler := handlers.NewHomeHandler(store, wheelCfg.Players, wheelCfg.Prizes)
	gameHandler := handlers.NewGameHandler(store, cfg.BaseURL)
	apiHandler := handlers.NewAPIHandler(store, cfg.AllowedOrigins)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))
		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte("ok"))
		})
		r.Handle("/metrics", promhttp.Handler())
		homeHandler.RegisterRoutes(r)
		gameHandler.RegisterRoutes(r)
		apiHandler.RegisterRoutes(r)
	})
	gameHandler.RegisterStream(r)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.Addr(), "wheel", cfg.WheelConfigPath, "max_games", settings.MaxGames)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

//go:embed static/*
var embeddedStatic embed.FS
