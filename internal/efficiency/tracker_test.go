package efficiency

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/julianstephens/meetmate/internal/constants"
)

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestMeasure(t *testing.T) {
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kind    constants.OperationKind
		elapsed time.Duration
		want    float64
	}{
		{"exactly ideal", constants.OpSchedule, 500 * time.Millisecond, 100},
		{"ten times slower", constants.OpSchedule, 5 * time.Second, 10},
		{"faster than ideal is capped", constants.OpDelete, 10 * time.Millisecond, 100},
		{"twice as slow", constants.OpReschedule, 1200 * time.Millisecond, 50},
		{"zero elapsed", constants.OpFaceAuth, 0, 100},
		{"negative elapsed", constants.OpHandGesture, -time.Second, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker(nil)
			got := tr.Measure(tt.kind, base, base.Add(tt.elapsed))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Measure() = %v, want %v", got, tt.want)
			}
			if last, ok := tr.Last(tt.kind); !ok || last != got {
				t.Errorf("Last() = %v, %v, want %v", last, ok, got)
			}
		})
	}
}

func TestMeasureIsBounded(t *testing.T) {
	tr := NewTracker(nil)
	base := time.Now()
	for _, kind := range constants.OperationKinds {
		for _, d := range []time.Duration{-time.Hour, 0, time.Nanosecond, time.Millisecond, time.Second, time.Hour} {
			s := tr.Measure(kind, base, base.Add(d))
			if s <= 0 || s > 100 {
				t.Errorf("Measure(%s, %v) = %v, want (0, 100]", kind, d, s)
			}
		}
	}
}

func TestMeasureOverwritesLastScore(t *testing.T) {
	tr := NewTracker(nil)
	base := time.Now()

	tr.Measure(constants.OpSchedule, base, base.Add(5*time.Second))
	tr.Measure(constants.OpSchedule, base, base.Add(time.Second))

	if got, _ := tr.Last(constants.OpSchedule); got != 50 {
		t.Errorf("Last() = %v, want 50", got)
	}
	if _, ok := tr.Last(constants.OpDelete); ok {
		t.Error("unmeasured kind should have no score")
	}
	if len(tr.Snapshot()) != 1 {
		t.Errorf("Snapshot() = %v", tr.Snapshot())
	}
}

func TestCustomIdeals(t *testing.T) {
	tr := NewTracker(map[constants.OperationKind]time.Duration{constants.OpSchedule: time.Second})
	if tr.Ideal(constants.OpSchedule) != time.Second {
		t.Errorf("custom ideal not applied")
	}
	if tr.Ideal(constants.OpDelete) != 200*time.Millisecond {
		t.Errorf("default ideal not kept")
	}
}

func TestTime(t *testing.T) {
	clock := &stepClock{now: time.Now(), step: time.Second}
	tr := NewTracker(nil).WithClock(clock)
	boom := errors.New("boom")

	score, err := tr.Time(constants.OpSchedule, func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Time() error = %v, want boom", err)
	}
	if score != 50 {
		t.Errorf("Time() score = %v, want 50", score)
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		score float64
		want  Band
	}{
		{100, BandGood},
		{80, BandGood},
		{79.9, BandFair},
		{50, BandFair},
		{49.9, BandPoor},
	}
	for _, tt := range tests {
		if got := Rate(tt.score); got != tt.want {
			t.Errorf("Rate(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestParseIdeals(t *testing.T) {
	got, err := ParseIdeals(map[string]time.Duration{"schedule": time.Second, "delete": 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("ParseIdeals() error = %v", err)
	}
	if got[constants.OpSchedule] != time.Second || got[constants.OpDelete] != 100*time.Millisecond {
		t.Errorf("ParseIdeals() = %v", got)
	}

	if _, err := ParseIdeals(map[string]time.Duration{"lunch": time.Second}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := ParseIdeals(map[string]time.Duration{"schedule": 0}); err == nil {
		t.Error("expected error for zero duration")
	}
}
