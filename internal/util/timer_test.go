package util

import (
	"testing"
	"time"
)

func TestTimerZeroValue(t *testing.T) {
	var timer Timer
	if timer.Elapsed() != 0 || timer.ElapsedMs() != 0 || timer.ElapsedSeconds() != 0 {
		t.Fatalf("expected zero elapsed for unstarted timer")
	}
}

func TestTimerElapsed(t *testing.T) {
	timer := StartTimer()
	time.Sleep(5 * time.Millisecond)
	if timer.Elapsed() < 5*time.Millisecond {
		t.Fatalf("expected at least 5ms got %v", timer.Elapsed())
	}
	if timer.ElapsedMs() < 5 {
		t.Fatalf("expected at least 5ms got %d", timer.ElapsedMs())
	}
}
