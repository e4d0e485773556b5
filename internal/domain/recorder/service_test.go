package recorder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/temperature"
)

// -------------------------
// Test repo
// -------------------------

type testRepo struct {
	mu sync.Mutex

	granted    bool
	grantedErr error
	writeErr   error
	readErr    error
	items      []temperature.Measurement

	writeCalls int
	readCalls  int
	lastValue  float64
	lastTime   time.Time
	lastWho    *identity.Identity
	lastStart  time.Time
	lastEnd    time.Time

	// block, si no es nil, frena HasAllPermissions hasta que se cierre.
	block chan struct{}
	// readBlock frena Read; readStarted (buffer 1) avisa que Read arrancó.
	readBlock   chan struct{}
	readStarted chan struct{}
}

func (r *testRepo) HasAllPermissions(ctx context.Context) (bool, error) {
	r.mu.Lock()
	block := r.block
	r.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.granted, r.grantedErr
}

func (r *testRepo) Write(ctx context.Context, valueCelsius float64, takenAt time.Time, subject *identity.Identity) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeCalls++
	r.lastValue = valueCelsius
	r.lastTime = takenAt
	r.lastWho = subject
	if r.writeErr != nil {
		return "", r.writeErr
	}
	return "rec-1", nil
}

func (r *testRepo) Read(ctx context.Context, start, end time.Time) ([]temperature.Measurement, error) {
	r.mu.Lock()
	block, started := r.readBlock, r.readStarted
	r.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.readCalls++
	r.lastStart, r.lastEnd = start, end
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.items, nil
}

func (r *testRepo) writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writeCalls
}

func newTestRecorder(repo *testRepo) *Recorder {
	rec := New(repo, Options{RecentWindow: time.Hour})
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return now }
	return rec
}

func recordKinds(rec *Recorder) (func() []Kind, func()) {
	var mu sync.Mutex
	kinds := []Kind{}
	unsub := rec.State().Subscribe(func(s State) {
		mu.Lock()
		kinds = append(kinds, s.Kind)
		mu.Unlock()
	})
	return func() []Kind {
		mu.Lock()
		defer mu.Unlock()
		out := make([]Kind, len(kinds))
		copy(out, kinds)
		return out
	}, unsub
}

func equalKinds(a, b []Kind) bool {
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

// -------------------------
// Tests
// -------------------------

func TestRecorder_CheckPermissions_Granted(t *testing.T) {
	rec := newTestRecorder(&testRepo{granted: true})
	defer rec.Close()
	kinds, unsub := recordKinds(rec)
	defer unsub()

	<-rec.CheckPermissions()

	want := []Kind{KindIdle, KindChecking, KindPermissionGranted}
	if got := kinds(); !equalKinds(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRecorder_CheckPermissions_Denied(t *testing.T) {
	rec := newTestRecorder(&testRepo{granted: false})
	defer rec.Close()

	<-rec.CheckPermissions()

	if got := rec.State().Get().Kind; got != KindPermissionDenied {
		t.Fatalf("expected denied, got %s", got)
	}
}

func TestRecorder_CheckPermissions_QueryFailurePublishesFailed(t *testing.T) {
	rec := newTestRecorder(&testRepo{grantedErr: errors.New("binder died")})
	defer rec.Close()

	<-rec.CheckPermissions()

	st := rec.State().Get()
	if st.Kind != KindFailed || st.Reason != "binder died" {
		t.Fatalf("expected Failed(binder died), got %#v", st)
	}
}

func TestRecorder_ValidateInput(t *testing.T) {
	rec := newTestRecorder(&testRepo{})
	defer rec.Close()

	cases := map[string]bool{
		"  37.0  ": true,
		"20":       true,
		"45.0":     true,
		"45.1":     false,
		"19.9":     false,
		"abc":      false,
		"":         false,
	}
	for in, want := range cases {
		if got := rec.ValidateInput(in); got != want {
			t.Fatalf("ValidateInput(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRecorder_Record_OutOfRangeNeverWrites(t *testing.T) {
	repo := &testRepo{granted: true}
	rec := newTestRecorder(repo)
	defer rec.Close()

	for _, v := range []float64{19.9, 45.1, -1, 100} {
		<-rec.Record(v)

		st := rec.State().Get()
		if st.Kind != KindFailed || st.Reason != "out of range" {
			t.Fatalf("expected Failed(out of range) for %v, got %#v", v, st)
		}
		if !errors.Is(st.Err, temperature.ErrOutOfRange) {
			t.Fatalf("expected ErrOutOfRange, got %v", st.Err)
		}
	}
	if repo.writes() != 0 {
		t.Fatalf("expected no platform writes, got %d", repo.writes())
	}
}

func TestRecorder_Record_Success(t *testing.T) {
	m := temperature.Measurement{RecordID: "rec-1", ValueCelsius: 37.2}
	repo := &testRepo{granted: true, items: []temperature.Measurement{m}}
	rec := newTestRecorder(repo)
	defer rec.Close()
	who := &identity.Identity{DisplayName: "Ana", Role: identity.RoleCaregiver, SubjectID: "c-1"}
	rec.SetIdentity(who)
	kinds, unsub := recordKinds(rec)
	defer unsub()

	res := <-rec.Record(37.2)
	if res.Superseded || res.Value.Kind != KindRecorded || res.Value.RecordID != "rec-1" {
		t.Fatalf("unexpected outcome %#v", res)
	}

	want := []Kind{KindIdle, KindSubmitting, KindRecorded}
	if got := kinds(); !equalKinds(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	st := rec.State().Get()
	if st.RecordID != "rec-1" || st.Message != "Temperature recorded: 37.2°C" {
		t.Fatalf("unexpected recorded state %#v", st)
	}
	if repo.lastValue != 37.2 || repo.lastWho == nil || *repo.lastWho != *who {
		t.Fatalf("write got value=%v who=%#v", repo.lastValue, repo.lastWho)
	}
	if !repo.lastTime.Equal(rec.now()) {
		t.Fatalf("expected current timestamp, got %v", repo.lastTime)
	}

	recent := rec.Recent().Get()
	if len(recent.Items) != 1 || recent.Items[0].RecordID != "rec-1" {
		t.Fatalf("expected recent list refreshed, got %#v", recent)
	}
	if !repo.lastEnd.Equal(rec.now()) || !repo.lastStart.Equal(rec.now().Add(-time.Hour)) {
		t.Fatalf("unexpected refresh window %v..%v", repo.lastStart, repo.lastEnd)
	}
}

func TestRecorder_Record_WriteFailure(t *testing.T) {
	repo := &testRepo{granted: true, writeErr: errors.New("permission revoked")}
	rec := newTestRecorder(repo)
	defer rec.Close()

	<-rec.Record(37)

	st := rec.State().Get()
	if st.Kind != KindFailed || st.Reason != "permission revoked" {
		t.Fatalf("expected Failed(permission revoked), got %#v", st)
	}
	if repo.readCalls != 0 {
		t.Fatalf("recent list must not refresh after a failed write")
	}
}

func TestRecorder_RefreshRecent_FailureKeepsItems(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{{RecordID: "a"}}}
	rec := newTestRecorder(repo)
	defer rec.Close()

	now := rec.now()
	<-rec.RefreshRecent(now.Add(-time.Hour), now)

	repo.mu.Lock()
	repo.readErr = errors.New("timeout")
	repo.mu.Unlock()
	<-rec.RefreshRecent(now.Add(-time.Hour), now)

	recent := rec.Recent().Get()
	if len(recent.Items) != 1 || recent.Items[0].RecordID != "a" {
		t.Fatalf("expected previous items kept, got %#v", recent.Items)
	}
	if recent.Reason == "" {
		t.Fatalf("expected failure reason")
	}
}

func TestRecorder_CheckPermissions_SupersededCallDoesNotPublish(t *testing.T) {
	repo := &testRepo{granted: true, block: make(chan struct{})}
	rec := newTestRecorder(repo)
	defer rec.Close()

	first := rec.CheckPermissions()

	repo.mu.Lock()
	repo.block = nil
	repo.granted = false
	repo.mu.Unlock()

	second := <-rec.CheckPermissions()
	older := <-first

	if got := rec.State().Get().Kind; got != KindPermissionDenied {
		t.Fatalf("expected latest call to win with denied, got %s", got)
	}
	if second.Superseded || second.Value.Kind != KindPermissionDenied {
		t.Fatalf("latest call must report its own result, got %#v", second)
	}
	if !older.Superseded {
		t.Fatalf("older call must report superseded, got %#v", older)
	}
}

func TestRecorder_Close_StopsPublishing(t *testing.T) {
	repo := &testRepo{granted: true, block: make(chan struct{})}
	rec := newTestRecorder(repo)

	done := rec.CheckPermissions()
	rec.Close()
	<-done

	if got := rec.State().Get().Kind; got == KindPermissionGranted || got == KindPermissionDenied {
		t.Fatalf("nothing must be published after Close, got %s", got)
	}

	<-rec.Record(37)
	if repo.writes() != 0 {
		t.Fatalf("Record after Close must not write")
	}
}

func TestRecorder_Record_OutcomeSurvivesLaterCheck(t *testing.T) {
	repo := &testRepo{granted: true, readBlock: make(chan struct{}), readStarted: make(chan struct{}, 1)}
	rec := newTestRecorder(repo)
	defer rec.Close()

	done := rec.Record(37.2)
	<-repo.readStarted

	// el check publica en el mismo estado mientras el refresh sigue en curso
	<-rec.CheckPermissions()
	close(repo.readBlock)

	res := <-done
	if res.Superseded || res.Value.Kind != KindRecorded || res.Value.RecordID != "rec-1" {
		t.Fatalf("record must report its own Recorded, got %#v", res)
	}
	if got := rec.State().Get().Kind; got != KindPermissionGranted {
		t.Fatalf("published state should be the later check, got %s", got)
	}
}

func TestRecorder_RefreshRecent_Outcome(t *testing.T) {
	repo := &testRepo{items: []temperature.Measurement{{RecordID: "a"}}}
	rec := newTestRecorder(repo)
	defer rec.Close()

	now := rec.now()
	res := <-rec.RefreshRecent(now.Add(-time.Hour), now)
	if res.Superseded || len(res.Value.Items) != 1 || !res.Value.To.Equal(now) {
		t.Fatalf("unexpected refresh outcome %#v", res)
	}
}
