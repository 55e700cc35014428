// Package server exposes the lookup, quote and health endpoints over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"stockgrader/internal/gateway"
	"stockgrader/internal/source"
	"stockgrader/internal/tickers"
)

// Quoter is the gateway operation the quote handler needs.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (gateway.Response, error)
}

type Config struct {
	// StaticDir is served at / when it exists. Empty disables static files.
	StaticDir      string
	RequestTimeout time.Duration
	// Now is the clock behind /health. Defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	cfg     Config
	tickers *tickers.Table
	quotes  Quoter
	log     zerolog.Logger
	router  chi.Router
}

// New builds the router. The ticker table is shared read-only across requests.
func New(cfg Config, tbl *tickers.Table, quotes Quoter, log zerolog.Logger) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if tbl == nil {
		tbl = tickers.New(nil)
	}
	s := &Server{
		cfg:     cfg,
		tickers: tbl,
		quotes:  quotes,
		log:     log.With().Str("component", "server").Logger(),
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/lookup", s.handleLookup)
		r.Get("/quote", s.handleQuote)
	})

	if s.cfg.StaticDir != "" {
		if fi, err := os.Stat(s.cfg.StaticDir); err == nil && fi.IsDir() {
			s.router.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
		} else {
			s.log.Debug().Str("dir", s.cfg.StaticDir).Msg("static dir not found, not serving files")
		}
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type lookupResponse struct {
	Found    bool   `json:"found"`
	Symbol   string `json:"symbol,omitempty"`
	Name     string `json:"name,omitempty"`
	Exchange string `json:"exchange,omitempty"`
}

type healthResponse struct {
	OK bool  `json:"ok"`
	TS int64 `json:"ts"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{OK: true, TS: s.cfg.Now().UnixMilli()})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := tickers.Normalize(r.URL.Query().Get("symbol"))
	if q == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "symbol required"})
		return
	}
	m, ok := s.tickers.Lookup(q)
	if !ok {
		s.writeJSON(w, http.StatusOK, lookupResponse{Found: false})
		return
	}
	s.writeJSON(w, http.StatusOK, lookupResponse{Found: true, Symbol: m.Symbol, Name: m.Name, Exchange: m.Exchange})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	resp, err := s.quotes.Quote(r.Context(), r.URL.Query().Get("symbol"))
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, gateway.ErrSymbolRequired):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "symbol required"})
	case errors.Is(err, source.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		details := err.Error()
		var fe *gateway.FetchError
		if errors.As(err, &fe) {
			details = fe.Err.Error()
		}
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("quote error")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "fetch error", Details: details})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
