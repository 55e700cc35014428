package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockgrader/internal/app"
	"stockgrader/internal/config"
	"stockgrader/internal/logger"
	"stockgrader/internal/server"
	"stockgrader/internal/tickers"
	"stockgrader/internal/trace"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("config")
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := trace.Init(ctx, trace.Config{Enabled: cfg.Tracing.Enabled, Out: os.Stderr})
	if err != nil {
		log.Fatal().Err(err).Msg("tracing")
	}

	tbl, err := tickers.Load(cfg.Tickers.Path)
	if err != nil {
		log.Warn().Err(err).Msg("tickers load error")
	}
	log.Info().Int("symbols", tbl.Len()).Str("path", cfg.Tickers.Path).Msg("ticker table loaded")

	svc, err := app.NewGateway(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("yahoo client")
	}

	requestTimeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: server.New(server.Config{
			StaticDir:      cfg.Server.StaticDir,
			RequestTimeout: requestTimeout,
		}, tbl, svc, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Stock Grader server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
}
