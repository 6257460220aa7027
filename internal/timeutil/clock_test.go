package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_NewTicker(t *testing.T) {
	clock := RealClock{}
	ticker := clock.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Error("ticker did not fire")
	}
}

func TestMockClock_Set(t *testing.T) {
	clock := NewMockClock(time.Time{})
	newTime := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	clock.Set(newTime)

	if !clock.Now().Equal(newTime) {
		t.Errorf("got %v, want %v", clock.Now(), newTime)
	}
}

func TestMockClock_Advance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.Advance(time.Hour)

	if want := start.Add(time.Hour); !clock.Now().Equal(want) {
		t.Errorf("got %v, want %v", clock.Now(), want)
	}
}

func TestMockClock_Ticker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ticker := clock.NewTicker(100 * time.Millisecond)

	select {
	case <-ticker.C():
		t.Fatal("ticker fired too early")
	default:
	}

	clock.Advance(50 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its interval")
	default:
	}

	clock.Advance(50 * time.Millisecond)
	select {
	case got := <-ticker.C():
		if want := start.Add(100 * time.Millisecond); !got.Equal(want) {
			t.Errorf("tick time = %v, want %v", got, want)
		}
	default:
		t.Fatal("ticker did not fire after first interval")
	}

	// Next tick is scheduled one interval after the last.
	clock.Advance(100 * time.Millisecond)
	select {
	case <-ticker.C():
	default:
		t.Error("ticker did not fire after second interval")
	}
}

func TestMockClock_TickerDropsWhenFull(t *testing.T) {
	clock := NewMockClock(time.Now())
	ticker := clock.NewTicker(time.Second)

	clock.Advance(time.Second)
	clock.Advance(time.Second)
	clock.Advance(time.Second)

	<-ticker.C()
	select {
	case <-ticker.C():
		t.Error("expected only one buffered tick")
	default:
	}
}

func TestMockClock_Ticker_Stop(t *testing.T) {
	clock := NewMockClock(time.Now())
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()
	clock.Advance(5 * time.Second)

	select {
	case <-ticker.C():
		t.Error("stopped ticker should not tick")
	default:
	}
}

func TestMockTicker_Trigger(t *testing.T) {
	clock := NewMockClock(time.Now())
	ticker := clock.NewTicker(time.Hour).(*MockTicker)
	now := clock.Now()
	ticker.Trigger(now)

	select {
	case received := <-ticker.C():
		if !received.Equal(now) {
			t.Errorf("got %v, want %v", received, now)
		}
	default:
		t.Error("Trigger did not send tick")
	}
}
