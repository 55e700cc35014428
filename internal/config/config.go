package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	StaticDir         string `json:"static_dir"`
}

type Upstream struct {
	BaseURL    string `json:"base_url"`
	TimeoutSec int    `json:"timeout_sec"`
	UserAgent  string `json:"user_agent"`
	// Region and Lang are sent as query parameters when set.
	Region     string `json:"region"`
	Lang       string `json:"lang"`
}

type Tickers struct {
	Path string `json:"path"`
}

type Log struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
}

type Tracing struct {
	Enabled bool `json:"enabled"`
}

type Config struct {
	Server   Server   `json:"server"`
	Upstream Upstream `json:"upstream"`
	Tickers  Tickers  `json:"tickers"`
	Log      Log      `json:"log"`
	Tracing  Tracing  `json:"tracing"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 15, StaticDir: "public"},
		Upstream: Upstream{
			BaseURL:    "https://query1.finance.yahoo.com",
			TimeoutSec: 10,
			UserAgent:  "Mozilla/5.0 (compatible; stock-grader/1.0)",
		},
		Tickers: Tickers{Path: "tickers.json"},
		Log:     Log{Level: "info"},
	}
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. A .env file in the working directory is loaded first,
// then environment variables override select fields.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Server.RequestTimeoutSec = x
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.Server.StaticDir = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Upstream.BaseURL = strings.TrimRight(v, "/")
	}
	if x, ok := envInt("UPSTREAM_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Upstream.TimeoutSec = x
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.Upstream.UserAgent = v
	}
	if v := os.Getenv("YAHOO_REGION"); v != "" {
		cfg.Upstream.Region = strings.ToUpper(v)
	}
	if v := os.Getenv("YAHOO_LANG"); v != "" {
		cfg.Upstream.Lang = v
	}
	if v := os.Getenv("TICKERS_FILE"); v != "" {
		cfg.Tickers.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if b, ok := envBool("LOG_PRETTY"); ok {
		cfg.Log.Pretty = b
	}
	if b, ok := envBool("TRACING_ENABLED"); ok {
		cfg.Tracing.Enabled = b
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	var x int
	if _, err := fmt.Sscanf(v, "%d", &x); err != nil {
		return 0, false
	}
	return x, true
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}
