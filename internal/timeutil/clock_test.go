package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := RealClock{}
	before := time.Now()
	got := c.Now()
	if got.Before(before) {
		t.Errorf("RealClock.Now() = %v, before %v", got, before)
	}
}

func TestRealClock_Since(t *testing.T) {
	c := RealClock{}
	start := c.Now().Add(-time.Second)
	if d := c.Since(start); d < time.Second {
		t.Errorf("RealClock.Since() = %v, want >= 1s", d)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	if got := c.Now(); !got.Equal(start) {
		t.Fatalf("Now() = %v, want %v", got, start)
	}
	c.Advance(250 * time.Millisecond)
	if got := c.Since(start); got != 250*time.Millisecond {
		t.Errorf("Since() = %v, want 250ms", got)
	}
}

func TestMockClock_Tick(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	c.SetTick(10 * time.Millisecond)

	first := c.Now()
	second := c.Now()
	if d := second.Sub(first); d != 10*time.Millisecond {
		t.Errorf("tick = %v, want 10ms", d)
	}
	if got := c.Since(first); got != 20*time.Millisecond {
		t.Errorf("Since(first) = %v, want 20ms", got)
	}
}
