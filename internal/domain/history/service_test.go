package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"temperature-history/internal/domain/temperature"
)

type testRepo struct {
	mu sync.Mutex

	items     []temperature.Measurement
	readErr   error
	deleteErr error
	deleted   []string
}

func (r *testRepo) Read(ctx context.Context, start, end time.Time) ([]temperature.Measurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.items, nil
}

func (r *testRepo) Delete(ctx context.Context, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, recordID)
	return nil
}

func ids(list []temperature.DisplayReading) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.RecordID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	t0 = time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

func TestBrowser_LoadHistory_SortsNewestFirst(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{
		{RecordID: "r1", ValueCelsius: 36.6, TakenAt: t1},
		{RecordID: "r0", ValueCelsius: 36.5, TakenAt: t0},
		{RecordID: "r2", ValueCelsius: 37.1, TakenAt: t2},
	}}
	b := New(repo, Options{})
	defer b.Close()

	var mu sync.Mutex
	kinds := []Kind{}
	unsub := b.State().Subscribe(func(s State) {
		mu.Lock()
		kinds = append(kinds, s.Kind)
		mu.Unlock()
	})
	defer unsub()

	<-b.LoadHistory(t0, t2)

	st := b.State().Get()
	if st.Kind != KindLoaded {
		t.Fatalf("expected loaded, got %#v", st)
	}
	if got := ids(st.Readings); !equalIDs(got, []string{"r2", "r1", "r0"}) {
		t.Fatalf("expected newest first, got %v", got)
	}
	if got := ids(b.Readings().Get()); !equalIDs(got, []string{"r2", "r1", "r0"}) {
		t.Fatalf("readings observable out of sync: %v", got)
	}
	if st.Readings[0].FormattedCelsius() != "37.1°C" {
		t.Fatalf("unexpected formatting %q", st.Readings[0].FormattedCelsius())
	}

	mu.Lock()
	defer mu.Unlock()
	if len(kinds) != 3 || kinds[0] != KindIdle || kinds[1] != KindLoading || kinds[2] != KindLoaded {
		t.Fatalf("unexpected transitions %v", kinds)
	}
}

func TestBrowser_LoadHistory_EqualTimesKeepDeliveryOrder(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{
		{RecordID: "a", TakenAt: t1},
		{RecordID: "b", TakenAt: t1},
		{RecordID: "c", TakenAt: t2},
	}}
	b := New(repo, Options{})
	defer b.Close()

	<-b.LoadHistory(t0, t2)

	if got := ids(b.State().Get().Readings); !equalIDs(got, []string{"c", "a", "b"}) {
		t.Fatalf("expected stable order, got %v", got)
	}
}

func TestBrowser_LoadHistory_EmptyIsLoaded(t *testing.T) {
	b := New(&testRepo{}, Options{})
	defer b.Close()

	<-b.LoadHistory(t0, t2)

	st := b.State().Get()
	if st.Kind != KindLoaded || st.Readings == nil || len(st.Readings) != 0 {
		t.Fatalf("expected Loaded([]), got %#v", st)
	}
}

func TestBrowser_LoadHistory_FailureClearsReadings(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{{RecordID: "r0", TakenAt: t0}}}
	b := New(repo, Options{})
	defer b.Close()

	<-b.LoadHistory(t0, t2)

	repo.mu.Lock()
	repo.readErr = temperature.ErrPermissionDenied
	repo.mu.Unlock()
	<-b.LoadHistory(t0, t2)

	st := b.State().Get()
	if st.Kind != KindFailed || !errors.Is(st.Err, temperature.ErrPermissionDenied) {
		t.Fatalf("expected Failed(permission denied), got %#v", st)
	}
	if len(b.Readings().Get()) != 0 {
		t.Fatalf("expected readings cleared")
	}
}

func TestBrowser_DeleteReading_RemovesAfterSuccess(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{
		{RecordID: "r0", TakenAt: t0},
		{RecordID: "r1", TakenAt: t1},
		{RecordID: "r2", TakenAt: t2},
	}}
	b := New(repo, Options{})
	defer b.Close()
	<-b.LoadHistory(t0, t2)

	<-b.DeleteReading("r1")

	st := b.State().Get()
	if st.Kind != KindLoaded {
		t.Fatalf("expected loaded after delete, got %#v", st)
	}
	if got := ids(st.Readings); !equalIDs(got, []string{"r2", "r0"}) {
		t.Fatalf("unexpected list after delete %v", got)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "r1" {
		t.Fatalf("unexpected deleted ids %v", repo.deleted)
	}
}

func TestBrowser_DeleteReading_FailureKeepsList(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{
		{RecordID: "r0", TakenAt: t0},
		{RecordID: "r1", TakenAt: t1},
	}}
	b := New(repo, Options{})
	defer b.Close()
	<-b.LoadHistory(t0, t2)

	repo.mu.Lock()
	repo.deleteErr = errors.New("record not found")
	repo.mu.Unlock()

	<-b.DeleteReading("missing")

	st := b.State().Get()
	if st.Kind != KindFailed || st.RecordID != "missing" || st.Reason != "record not found" {
		t.Fatalf("expected Failed(record not found), got %#v", st)
	}
	if got := ids(b.Readings().Get()); !equalIDs(got, []string{"r1", "r0"}) {
		t.Fatalf("list must stay unchanged, got %v", got)
	}
}

func TestBrowser_Close_StopsPublishing(t *testing.T) {
	b := New(&testRepo{}, Options{})
	b.Close()

	<-b.LoadHistory(t0, t2)

	if got := b.State().Get().Kind; got != KindIdle {
		t.Fatalf("expected idle after Close, got %s", got)
	}
}

func TestBrowser_DeleteReading_OutcomeIsOwnResult(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{
		{RecordID: "r0", TakenAt: t0},
		{RecordID: "r1", TakenAt: t1},
	}}
	b := New(repo, Options{})
	defer b.Close()
	<-b.LoadHistory(t0, t2)

	res := <-b.DeleteReading("r1")

	// una carga posterior que falla reemplaza el estado publicado
	repo.mu.Lock()
	repo.readErr = errors.New("timeout")
	repo.mu.Unlock()
	load := <-b.LoadHistory(t0, t2)

	if res.Superseded || res.Value.Kind != KindLoaded || !equalIDs(ids(res.Value.Readings), []string{"r0"}) {
		t.Fatalf("delete must keep its own Loaded result, got %#v", res)
	}
	if load.Superseded || load.Value.Kind != KindFailed {
		t.Fatalf("unexpected load outcome %#v", load)
	}
	if got := b.State().Get().Kind; got != KindFailed {
		t.Fatalf("published state should be the later load, got %s", got)
	}
}
