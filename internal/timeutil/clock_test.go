package timeutil

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	c := NewRealClock()
	before := time.Now()
	got := c.Now()
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}

	c.Advance(90 * time.Minute)
	want := start.Add(90 * time.Minute)
	if !c.Now().Equal(want) {
		t.Errorf("after Advance: Now() = %v, want %v", c.Now(), want)
	}

	if got := c.Since(start); got != 90*time.Minute {
		t.Errorf("Since(start) = %v, want 90m", got)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("after Set: Now() = %v, want %v", c.Now(), start)
	}
}
