// Package grading turns a handful of quote fundamentals into a bounded
// score and a letter grade.
package grading

import "math"

// Letter is a grade bucket derived from a score.
type Letter string

const (
	A Letter = "A"
	B Letter = "B"
	C Letter = "C"
	D Letter = "D"
	F Letter = "F"
)

// Snapshot holds the fundamentals a grade is computed from.
// A nil field is absent and contributes no adjustment.
type Snapshot struct {
	PERatio   *float64 // trailing P/E, or forward P/E when trailing is missing
	EPS       *float64 // trailing twelve months
	MarketCap *float64
	Volume    *float64 // carried through, never scored
}

// Grade is the result of grading a Snapshot.
type Grade struct {
	Score  int    `json:"score"`
	Letter Letter `json:"grade"`
}

// Breakdown exposes the individual adjustments behind a Grade.
// Raw is the score before clamping.
type Breakdown struct {
	Base      int   `json:"base"`
	PE        int   `json:"pe"`
	EPS       int   `json:"eps"`
	MarketCap int   `json:"marketCap"`
	Raw       int   `json:"raw"`
	Grade     Grade `json:"result"`
}

const (
	baseScore = 50

	peNeutral  = 30.0
	peCap      = 100.0
	peFloor    = -20
	epsCap     = 10.0
	epsFloor   = -15.0
	mcapOffset = 6.0
	mcapCeil   = 15.0
)

// Compute grades s. It never fails and has no side effects.
func Compute(s Snapshot) Grade {
	return Explain(s).Grade
}

// Explain grades s and reports each factor's contribution.
func Explain(s Snapshot) Breakdown {
	b := Breakdown{Base: baseScore}

	if s.PERatio != nil && *s.PERatio > 0 {
		pe := math.Min(*s.PERatio, peCap)
		b.PE = max(peFloor, roundHalfUp((peNeutral-pe)/3))
	}

	if s.EPS != nil {
		// floor applied before rounding; same result, no overflow on huge negatives
		eps := math.Min(*s.EPS, epsCap)
		b.EPS = roundHalfUp(math.Max(eps*2, epsFloor))
	}

	// zero market cap is treated as missing
	if s.MarketCap != nil && *s.MarketCap != 0 {
		v := *s.MarketCap
		if v == 0 {
			v = 1
		}
		if l := math.Log10(v); !math.IsNaN(l) {
			b.MarketCap = roundHalfUp(math.Min(l-mcapOffset, mcapCeil))
		}
	}

	b.Raw = b.Base + b.PE + b.EPS + b.MarketCap
	score := min(100, max(0, b.Raw))
	b.Grade = Grade{Score: score, Letter: LetterFor(score)}
	return b
}

// LetterFor maps a score to its letter. Thresholds are inclusive lower bounds.
func LetterFor(score int) Letter {
	switch {
	case score >= 85:
		return A
	case score >= 70:
		return B
	case score >= 55:
		return C
	case score >= 40:
		return D
	default:
		return F
	}
}

// roundHalfUp rounds to the nearest integer with ties going toward +Inf,
// so -2.5 becomes -2 where math.Round would give -3. The fraction is
// compared directly: x+0.5 can itself round up, e.g. for 0.49999999999999994.
func roundHalfUp(x float64) int {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return int(f)
}
