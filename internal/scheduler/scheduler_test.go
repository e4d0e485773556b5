package scheduler

import (
	"sync"
	"testing"
	"time"

	"temperature-history/internal/domain/recorder"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	start time.Time
	end   time.Time
}

func (f *fakeRefresher) RefreshRecent(start, end time.Time) <-chan recorder.RecentOutcome {
	f.mu.Lock()
	f.calls++
	f.start, f.end = start, end
	f.mu.Unlock()

	done := make(chan recorder.RecentOutcome, 1)
	done <- recorder.RecentOutcome{Value: recorder.RecentList{From: start, To: end}}
	close(done)
	return done
}

func (f *fakeRefresher) RecentWindow() time.Duration { return 2 * time.Hour }

func TestScheduler_RunOnceUsesWindow(t *testing.T) {
	f := &fakeRefresher{}
	s := New(f, time.Minute, nil)
	now := time.Date(2025, 12, 22, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.RunOnce()

	if f.calls != 1 {
		t.Fatalf("expected 1 refresh, got %d", f.calls)
	}
	if !f.end.Equal(now) || !f.start.Equal(now.Add(-2*time.Hour)) {
		t.Fatalf("unexpected window %v..%v", f.start, f.end)
	}
}

func TestScheduler_DisabledInterval(t *testing.T) {
	f := &fakeRefresher{}
	s := New(f, 0, nil)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()

	if f.calls != 0 {
		t.Fatalf("disabled scheduler must not refresh")
	}
}
