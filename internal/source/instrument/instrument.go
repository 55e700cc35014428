package instrument

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"stockgrader/internal/source"
	"stockgrader/internal/trace"
)

// Provider wraps a Source with a span and a log line per fetch.
// Errors are returned unchanged.
type Provider struct {
	P   source.Source
	Log zerolog.Logger
}

func (p *Provider) Name() string { return p.P.Name() }

func (p *Provider) Fetch(ctx context.Context, symbol string) (source.Quote, error) {
	ctx, span := trace.Tracer().Start(ctx, "source.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("source.name", p.P.Name()),
		attribute.String("quote.symbol", symbol),
	)

	start := time.Now()
	q, err := p.P.Fetch(ctx, symbol)
	took := time.Since(start)

	switch {
	case err == nil:
		p.Log.Debug().Str("source", p.P.Name()).Str("symbol", symbol).Dur("took", took).Msg("quote fetched")
	case errors.Is(err, source.ErrNotFound):
		span.SetAttributes(attribute.Bool("quote.not_found", true))
		p.Log.Debug().Str("source", p.P.Name()).Str("symbol", symbol).Dur("took", took).Msg("quote not found")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.Log.Warn().Err(err).Str("source", p.P.Name()).Str("symbol", symbol).Dur("took", took).Msg("quote fetch failed")
	}
	return q, err
}
