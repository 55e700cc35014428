package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, cfg map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestScore(t *testing.T) {
	out, err := run(t, "score", "--pe", "15", "--eps", "2", "--market-cap", "1e9")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"score": 62.0, "grade": "C"}, got)
}

func TestScore_NoFlagsIsBaseline(t *testing.T) {
	out, err := run(t, "score")
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":50,"grade":"D"}`, out)
}

func TestScore_Explain(t *testing.T) {
	out, err := run(t, "score", "--eps", "-5", "--explain")
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":50,"pe":0,"eps":-10,"marketCap":0,"raw":40,"result":{"score":40,"grade":"D"}}`, out)
}

// An explicit zero is a present value: --eps 0 adds nothing but --pe 0 is
// still ignored as non-positive, so both grade like the baseline.
func TestScore_ExplicitZero(t *testing.T) {
	out, err := run(t, "score", "--eps", "0", "--pe", "0", "--explain")
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":50,"pe":0,"eps":0,"marketCap":0,"raw":50,"result":{"score":50,"grade":"D"}}`, out)
}

func TestScore_RejectsArgs(t *testing.T) {
	_, err := run(t, "score", "AAPL")
	require.Error(t, err)
}

func TestLookup(t *testing.T) {
	tickers := filepath.Join(t.TempDir(), "tickers.json")
	require.NoError(t, os.WriteFile(tickers, []byte(`{"MAYBANK":{"name":"Malayan Banking Berhad","exchange":"Bursa Malaysia"}}`), 0o600))
	cfgPath := writeConfig(t, map[string]any{"tickers": map[string]any{"path": tickers}})

	out, err := run(t, "--config", cfgPath, "lookup", "maybank.kl")
	require.NoError(t, err)
	assert.JSONEq(t, `{"symbol":"MAYBANK.KL","name":"Malayan Banking Berhad","exchange":"Bursa Malaysia"}`, out)

	_, err = run(t, "--config", cfgPath, "lookup", "ZZZ")
	require.EqualError(t, err, "ZZZ: not found")
}

func TestQuote(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/finance/quote", r.URL.Path)
		assert.Equal(t, "MSFT", r.URL.Query().Get("symbols"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"MSFT","shortName":"Microsoft","currency":"USD","regularMarketPrice":410.5,"epsTrailingTwelveMonths":-5}],"error":null}}`))
	}))
	defer upstream.Close()
	cfgPath := writeConfig(t, map[string]any{"upstream": map[string]any{"base_url": upstream.URL, "timeout_sec": 5}})

	out, err := run(t, "--config", cfgPath, "quote", "msft")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "MSFT", got["symbol"])
	assert.Equal(t, "Microsoft", got["name"])
	assert.Equal(t, 410.5, got["price"])
	assert.Nil(t, got["pe"])
	assert.Equal(t, 40.0, got["score"])
	assert.Equal(t, "D", got["grade"])
}
