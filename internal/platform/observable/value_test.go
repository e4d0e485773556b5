package observable

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestValue_SubscribeGetsCurrentThenUpdates(t *testing.T) {
	v := New("idle")

	var mu sync.Mutex
	var seen []string
	unsub := v.Subscribe(func(s string) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	v.Publish("loading")
	v.Publish("loaded")
	unsub()
	v.Publish("ignored")

	mu.Lock()
	defer mu.Unlock()
	want := []string{"idle", "loading", "loaded"}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
	if v.Get() != "ignored" {
		t.Fatalf("Get must return last published value, got %q", v.Get())
	}
}

func TestValue_WatchKeepsLatest(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	ch := v.Watch(ctx)

	v.Publish(1)
	v.Publish(2)
	v.Publish(3)

	select {
	case got := <-ch:
		if got != 3 {
			t.Fatalf("expected latest value 3, got %d", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for value")
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("channel not closed after cancel")
		}
	}
}
