// Package tickers resolves ticker symbols to a display name and exchange
// from a mapping file loaded once at start.
package tickers

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Entry is a single row of the mapping file.
type Entry struct {
	Name     string `yaml:"name" json:"name"`
	Exchange string `yaml:"exchange" json:"exchange"`
}

// Match is a successful lookup. Symbol is the normalized query.
type Match struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Table is an immutable symbol → Entry mapping, safe for concurrent use.
type Table struct {
	entries map[string]Entry
}

// New builds a Table from a copy of entries. Keys are used as given.
func New(entries map[string]Entry) *Table {
	return &Table{entries: maps.Clone(entries)}
}

// Load reads an object of SYMBOL → {name, exchange}. Files ending in .json
// are decoded as JSON, where a repeated key keeps its last value; anything
// else is decoded as YAML. On error it still returns a usable empty table.
func Load(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return New(nil), fmt.Errorf("read tickers: %w", err)
	}
	var entries map[string]Entry
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &entries)
	} else {
		err = yaml.Unmarshal(b, &entries)
	}
	if err != nil {
		return New(nil), fmt.Errorf("parse tickers %s: %w", path, err)
	}
	return New(entries), nil
}

// Len reports the number of symbols in the table.
func (t *Table) Len() int { return len(t.entries) }

// Normalize upper-cases raw and strips all whitespace.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(raw)))
}

// Lookup resolves raw by exact key, then with the Bursa Malaysia ".KL"
// suffix removed. The returned Match carries the normalized query.
func (t *Table) Lookup(raw string) (Match, bool) {
	clean := Normalize(raw)
	if clean == "" {
		return Match{}, false
	}
	e, ok := t.entries[clean]
	if !ok {
		e, ok = t.entries[strings.Replace(clean, ".KL", "", 1)]
	}
	if !ok {
		return Match{}, false
	}
	return Match{Symbol: clean, Name: e.Name, Exchange: e.Exchange}, true
}
