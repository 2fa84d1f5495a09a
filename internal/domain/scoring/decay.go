// Package scoring implements the time-decay and ownership arithmetic
// for scored entities. All functions are pure: the same inputs always
// produce the same outputs and nothing is mutated in place.
package scoring

import (
	"math"
	"sort"
	"time"
)

// Default scoring configuration constants.
const (
	// defaultDailyDecay makes stored points fall by 10% per 24h.
	defaultDailyDecay = 0.10

	millisPerDay = 86_400_000
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDailyDecay sets the fraction of points lost per 24h. Values
// outside (0, 1) are ignored.
func WithDailyDecay(fraction float64) Option {
	return func(e *Engine) {
		if fraction > 0 && fraction < 1 {
			e.dailyDecay = fraction
		}
	}
}

// Engine computes decayed point totals and owners.
type Engine struct {
	dailyDecay float64
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{dailyDecay: defaultDailyDecay}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// factor returns the multiplicative decay for an elapsed interval.
// Non-positive intervals never increase points: the factor is 1.
func (e *Engine) factor(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 1
	}
	days := float64(elapsed.Milliseconds()) / millisPerDay
	return math.Pow(1-e.dailyDecay, days)
}

// CurrentPoints decays every stored total from updatedAt to now and
// rounds to whole points. Teams with no stored points yield 0. The
// input map is never modified.
func (e *Engine) CurrentPoints(pointsByTeam map[string]float64, updatedAt, now time.Time) map[string]float64 {
	f := e.factor(now.Sub(updatedAt))
	out := make(map[string]float64, len(pointsByTeam))
	for team, pts := range pointsByTeam {
		out[team] = math.Round(pts * f)
	}
	return out
}

// ApplyNewPoints decays all totals to now, credits amount to team, and
// re-bases the state at now. The re-basing is what makes repeated decay
// calls compose: totals are always stored as-of the returned timestamp,
// so elapsed time is never applied twice. The awarded amount itself is
// not decayed.
//
// When now is before updatedAt the base never moves backwards: the
// stored totals stay as-of updatedAt and the award is decayed for the
// skew instead, so the result is the same as if the award had landed
// in order.
func (e *Engine) ApplyNewPoints(pointsByTeam map[string]float64, updatedAt, now time.Time, team string, amount float64) (map[string]float64, time.Time) {
	if now.Before(updatedAt) {
		out := e.CurrentPoints(pointsByTeam, updatedAt, updatedAt)
		out[team] += amount * e.factor(updatedAt.Sub(now))
		return out, updatedAt
	}
	out := e.CurrentPoints(pointsByTeam, updatedAt, now)
	out[team] += amount
	return out, now
}

// DetermineOwner returns the team holding strictly the most points, or
// previousOwner when the best challenger merely ties it. Incumbency
// wins ties. An empty previousOwner with no positive totals yields no
// owner. Iteration is ordered so equal inputs always pick the same
// challenger.
func (e *Engine) DetermineOwner(pointsByTeam map[string]float64, previousOwner string) string {
	best := previousOwner
	bestPoints := pointsByTeam[previousOwner]

	teams := make([]string, 0, len(pointsByTeam))
	for t := range pointsByTeam {
		teams = append(teams, t)
	}
	sort.Strings(teams)

	for _, t := range teams {
		if t == best {
			continue
		}
		if pointsByTeam[t] > bestPoints {
			best = t
			bestPoints = pointsByTeam[t]
		}
	}

	if previousOwner == "" && bestPoints <= 0 {
		return ""
	}
	return best
}
