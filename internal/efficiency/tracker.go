package efficiency

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/julianstephens/meetmate/internal/constants"
	"github.com/julianstephens/meetmate/internal/logger"
	"github.com/julianstephens/meetmate/internal/metrics"
)

// Epsilon replaces non-positive elapsed times when scoring
const Epsilon = time.Millisecond

// Band is a coarse rating of a score
type Band string

const (
	BandGood Band = "good"
	BandFair Band = "fair"
	BandPoor Band = "poor"
)

// Clock is the time source used by Time
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Tracker scores operation durations against a fixed ideal per operation kind.
// Scores live in memory only and are replaced by each new measurement.
type Tracker struct {
	mu     sync.RWMutex
	ideals map[constants.OperationKind]time.Duration
	scores map[constants.OperationKind]float64
	clock  Clock
}

// NewTracker returns a tracker using ideals, falling back to the default ideal for any
// kind that ideals does not set.
func NewTracker(ideals map[constants.OperationKind]time.Duration) *Tracker {
	merged := make(map[constants.OperationKind]time.Duration, len(constants.DefaultIdealDurations))
	for kind, d := range constants.DefaultIdealDurations {
		merged[kind] = d
	}
	for kind, d := range ideals {
		if d > 0 {
			merged[kind] = d
		}
	}

	return &Tracker{
		ideals: merged,
		scores: make(map[constants.OperationKind]float64),
		clock:  realClock{},
	}
}

// WithClock replaces the time source used by Time
func (t *Tracker) WithClock(c Clock) *Tracker {
	t.clock = c
	return t
}

// Ideal returns the reference duration for kind
func (t *Tracker) Ideal(kind constants.OperationKind) time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ideals[kind]
}

// Measure scores the interval [start, end] for kind and records it as the kind's last score
func (t *Tracker) Measure(kind constants.OperationKind, start, end time.Time) float64 {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		elapsed = Epsilon
	}

	t.mu.Lock()
	ideal, ok := t.ideals[kind]
	if !ok {
		t.mu.Unlock()
		logger.Warn("No ideal duration for operation kind", "kind", kind)
		return 0
	}
	score := Score(ideal, elapsed)
	t.scores[kind] = score
	t.mu.Unlock()

	metrics.OperationEfficiency.WithLabelValues(string(kind)).Set(score)
	metrics.OperationDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	logger.Debug("Measured operation", "kind", kind, "elapsed", elapsed, "score", score)
	return score
}

// Time runs fn and measures it as kind. fn's error is returned unchanged.
func (t *Tracker) Time(kind constants.OperationKind, fn func() error) (float64, error) {
	start := t.clock.Now()
	err := fn()
	return t.Measure(kind, start, t.clock.Now()), err
}

// Last returns the last score recorded for kind
func (t *Tracker) Last(kind constants.OperationKind) (float64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.scores[kind]
	return s, ok
}

// Snapshot returns a copy of every recorded score
func (t *Tracker) Snapshot() map[constants.OperationKind]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[constants.OperationKind]float64, len(t.scores))
	for kind, s := range t.scores {
		out[kind] = s
	}
	return out
}

// Score is min(ideal/elapsed*100, 100)
func Score(ideal, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = Epsilon
	}
	return math.Min(ideal.Seconds()/elapsed.Seconds()*100, 100)
}

// Rate maps a score to its display band
func Rate(score float64) Band {
	switch {
	case score >= constants.EfficiencyGood:
		return BandGood
	case score < constants.EfficiencyPoor:
		return BandPoor
	default:
		return BandFair
	}
}

// ParseIdeals converts user-supplied ideal durations keyed by kind name
func ParseIdeals(raw map[string]time.Duration) (map[constants.OperationKind]time.Duration, error) {
	out := make(map[constants.OperationKind]time.Duration, len(raw))
	for name, d := range raw {
		kind := constants.OperationKind(name)
		if _, ok := constants.DefaultIdealDurations[kind]; !ok {
			return nil, fmt.Errorf("unknown operation kind %q", name)
		}
		if d <= 0 {
			return nil, fmt.Errorf("ideal duration for %s must be positive, got %s", name, d)
		}
		out[kind] = d
	}
	return out, nil
}
