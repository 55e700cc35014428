// Package gateway fetches a quote, grades it and shapes the API response.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockgrader/internal/grading"
	"stockgrader/internal/source"
)

// ErrSymbolRequired is returned for a blank symbol.
var ErrSymbolRequired = errors.New("symbol required")

// FetchError wraps an upstream failure other than not-found.
type FetchError struct {
	Symbol string
	Err    error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err) }

func (e *FetchError) Unwrap() error { return e.Err }

// Response is the graded quote as served by /api/quote.
// Absent values encode as null.
type Response struct {
	Symbol    string         `json:"symbol"`
	Name      *string        `json:"name"`
	Exchange  *string        `json:"exchange"`
	Currency  *string        `json:"currency"`
	Price     *float64       `json:"price"`
	Change    *float64       `json:"change"`
	PE        *float64       `json:"pe"`
	EPS       *float64       `json:"eps"`
	Volume    *float64       `json:"volume"`
	MarketCap *float64       `json:"marketCap"`
	Grade     grading.Letter `json:"grade"`
	Score     int            `json:"score"`
}

type Service struct {
	src     source.Source
	timeout time.Duration
	log     zerolog.Logger
}

// NewService builds a gateway over src. A non-positive timeout leaves the
// caller's context deadline as the only limit.
func NewService(src source.Source, timeout time.Duration, log zerolog.Logger) *Service {
	return &Service{
		src:     src,
		timeout: timeout,
		log:     log.With().Str("component", "gateway").Logger(),
	}
}

// NormalizeSymbol trims and upper-cases a requested symbol.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Quote fetches symbol from the source and grades it.
// Errors are ErrSymbolRequired, source.ErrNotFound or *FetchError.
func (s *Service) Quote(ctx context.Context, symbol string) (Response, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return Response{}, ErrSymbolRequired
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	q, err := s.src.Fetch(ctx, symbol)
	if err != nil {
		if errors.Is(err, source.ErrNotFound) {
			return Response{}, err
		}
		return Response{}, &FetchError{Symbol: symbol, Err: err}
	}

	snap := q.Snapshot()
	g := grading.Compute(snap)
	s.log.Debug().Str("symbol", q.Symbol).Int("score", g.Score).Str("grade", string(g.Letter)).Msg("quote graded")

	return Response{
		Symbol:    q.Symbol,
		Name:      q.Name,
		Exchange:  q.Exchange,
		Currency:  q.Currency,
		Price:     source.Finite(q.Price),
		Change:    source.Finite(q.ChangePercent),
		PE:        snap.PERatio,
		EPS:       snap.EPS,
		Volume:    snap.Volume,
		MarketCap: snap.MarketCap,
		Grade:     g.Letter,
		Score:     g.Score,
	}, nil
}
