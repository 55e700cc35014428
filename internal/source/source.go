package source

import (
	"context"
	"errors"
	"math"

	"stockgrader/internal/grading"
)

// ErrNotFound reports that the upstream knows no instrument for the symbol.
// Any other error from a Source is a transient fetch failure.
var ErrNotFound = errors.New("not found")

// Quote is the normalized shape returned by all sources.
// Pointer fields are nil when the upstream left them out (or sent zero).
type Quote struct {
	Symbol        string
	Name          *string
	Exchange      *string
	Currency      *string
	Price         *float64
	ChangePercent *float64
	TrailingPE    *float64
	ForwardPE     *float64
	EPS           *float64
	Volume        *float64
	MarketCap     *float64
}

// PE prefers the trailing ratio and falls back to the forward one.
func (q Quote) PE() *float64 {
	if q.TrailingPE != nil {
		return q.TrailingPE
	}
	return q.ForwardPE
}

// Snapshot extracts the fundamentals the grader works on.
func (q Quote) Snapshot() grading.Snapshot {
	return grading.Snapshot{
		PERatio:   Finite(q.PE()),
		EPS:       Finite(q.EPS),
		MarketCap: Finite(q.MarketCap),
		Volume:    Finite(q.Volume),
	}
}

// Source fetches a single quote for a symbol.
//
//go:generate mockgen -package=sourcemock -destination=sourcemock/mock_source.go -source=source.go Source
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (Quote, error)
}

// Finite returns v unless it points at NaN or an infinity.
func Finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
