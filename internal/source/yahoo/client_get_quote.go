package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strings"

	"stockgrader/internal/source"
)

// Result is a single entry of quoteResponse.result.
// Numbers the upstream omitted, nulled or sent with a non-numeric type are nil.
type Result struct {
	Symbol                     string
	LongName                   string
	ShortName                  string
	FullExchangeName           string
	Currency                   string
	RegularMarketPrice         *float64
	RegularMarketChangePercent *float64
	RegularMarketVolume        *float64
	TrailingPE                 *float64
	ForwardPE                  *float64
	EPSTrailingTwelveMonths    *float64
	MarketCap                  *float64
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]any `json:"result"`
		Error  any              `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuote retrieves the quote for a single symbol from the v7 quote endpoint.
// It returns source.ErrNotFound when the upstream has no result for symbol,
// wrapping the upstream error description when one was sent.
func (c *YahooAPIClient) GetQuote(ctx context.Context, symbol string, opts ...YahooAPIClientOption) (*Result, error) {
	var override = &YahooAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)
	query.Set("symbols", symbol)

	url := fmt.Sprintf("%s/v7/finance/quote?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized: status %d", res.StatusCode)

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("unexpected status code: %d: %s", res.StatusCode, strings.TrimSpace(string(b)))
	}

	var body quoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding quote response: %w", err)
	}
	// quoteResponse.error only matters when there is no result to return.
	if len(body.QuoteResponse.Result) == 0 || body.QuoteResponse.Result[0] == nil {
		if body.QuoteResponse.Error != nil {
			return nil, fmt.Errorf("%w: quote response error: %v", source.ErrNotFound, body.QuoteResponse.Error)
		}
		return nil, source.ErrNotFound
	}

	// {
	//   "symbol": "AAPL",
	//   "longName": "Apple Inc.",
	//   "fullExchangeName": "NasdaqGS",
	//   "currency": "USD",
	//   "regularMarketPrice": 189.84,
	//   "trailingPE": 29.4,
	//   "epsTrailingTwelveMonths": 6.43,
	//   "marketCap": 2952926756864,
	//   ...
	// }
	raw := body.QuoteResponse.Result[0]
	return &Result{
		Symbol:                     getString(raw, "symbol"),
		LongName:                   getString(raw, "longName"),
		ShortName:                  getString(raw, "shortName"),
		FullExchangeName:           getString(raw, "fullExchangeName"),
		Currency:                   getString(raw, "currency"),
		RegularMarketPrice:         getFloat64(raw, "regularMarketPrice"),
		RegularMarketChangePercent: getFloat64(raw, "regularMarketChangePercent"),
		RegularMarketVolume:        getFloat64(raw, "regularMarketVolume"),
		TrailingPE:                 getFloat64(raw, "trailingPE"),
		ForwardPE:                  getFloat64(raw, "forwardPE"),
		EPSTrailingTwelveMonths:    getFloat64(raw, "epsTrailingTwelveMonths"),
		MarketCap:                  getFloat64(raw, "marketCap"),
	}, nil
}

func getFloat64(m map[string]any, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
