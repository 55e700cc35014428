// Package app assembles the quote pipeline shared by the server and the CLI.
package app

import (
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"stockgrader/internal/config"
	"stockgrader/internal/gateway"
	"stockgrader/internal/httpx"
	"stockgrader/internal/source"
	"stockgrader/internal/source/instrument"
	"stockgrader/internal/source/yahoo"
	"stockgrader/internal/source/yahooadapter"
)

// NewSource builds the instrumented Yahoo quote source from cfg.
func NewSource(cfg config.Config, log zerolog.Logger) (source.Source, error) {
	httpClient := httpx.New(time.Duration(cfg.Upstream.TimeoutSec) * time.Second)
	httpClient.UserAgent = cfg.Upstream.UserAgent

	client, err := yahoo.NewYahooAPIClient(
		yahoo.WithBaseURL(cfg.Upstream.BaseURL),
		yahoo.WithHTTPClient(httpClient),
		yahoo.WithHeader(http.Header{
			"Accept-Language": []string{"en-US,en;q=0.9"},
		}),
		yahoo.WithQuery(upstreamQuery(cfg.Upstream)),
	)
	if err != nil {
		return nil, err
	}

	var p source.Source = yahooadapter.New(yahooadapter.Config{Name: "Yahoo"}, client)
	p = &instrument.Provider{P: p, Log: log.With().Str("client", "yahoo").Logger()}
	return p, nil
}

func upstreamQuery(u config.Upstream) url.Values {
	q := url.Values{}
	if u.Region != "" {
		q.Set("region", u.Region)
	}
	if u.Lang != "" {
		q.Set("lang", u.Lang)
	}
	return q
}

// NewGateway wires NewSource into a gateway.Service bounded by the upstream timeout.
func NewGateway(cfg config.Config, log zerolog.Logger) (*gateway.Service, error) {
	src, err := NewSource(cfg, log)
	if err != nil {
		return nil, err
	}
	return gateway.NewService(src, time.Duration(cfg.Upstream.TimeoutSec)*time.Second, log), nil
}
