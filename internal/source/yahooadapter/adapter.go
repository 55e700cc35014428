package yahooadapter

import (
	"context"
	"strings"

	"stockgrader/internal/source"
	"stockgrader/internal/source/yahoo"
)

// Quoter is the part of the Yahoo client the adapter needs.
type Quoter interface {
	GetQuote(ctx context.Context, symbol string, opts ...yahoo.YahooAPIClientOption) (*yahoo.Result, error)
}

type Config struct {
	Name string // display name, default: Yahoo
}

// Adapter exposes a Yahoo client as a source.Source.
type Adapter struct {
	cfg    Config
	client Quoter
}

func New(cfg Config, client Quoter) *Adapter {
	if cfg.Name == "" {
		cfg.Name = "Yahoo"
	}
	return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// Fetch returns the quote for symbol. Zero numbers and empty strings are
// reported as absent, and a missing upstream symbol falls back to the
// requested one.
func (a *Adapter) Fetch(ctx context.Context, symbol string) (source.Quote, error) {
	r, err := a.client.GetQuote(ctx, symbol)
	if err != nil {
		return source.Quote{}, err
	}

	q := source.Quote{
		Symbol:        r.Symbol,
		Name:          firstString(r.LongName, r.ShortName),
		Exchange:      firstString(r.FullExchangeName),
		Currency:      firstString(r.Currency),
		Price:         nonZero(r.RegularMarketPrice),
		ChangePercent: nonZero(r.RegularMarketChangePercent),
		TrailingPE:    nonZero(r.TrailingPE),
		ForwardPE:     nonZero(r.ForwardPE),
		EPS:           nonZero(r.EPSTrailingTwelveMonths),
		Volume:        nonZero(r.RegularMarketVolume),
		MarketCap:     nonZero(r.MarketCap),
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	return q, nil
}

func firstString(vals ...string) *string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}

func nonZero(v *float64) *float64 {
	v = source.Finite(v)
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
