package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"temperature-history/internal/ports/healthplatform"
)

func rec(at time.Time, v float64) healthplatform.Record {
	return healthplatform.Record{
		Time:        at,
		Temperature: healthplatform.Temperature{Value: v, Unit: healthplatform.UnitCelsius},
	}
}

func TestPlatform_InsertReadDelete(t *testing.T) {
	ctx := context.Background()
	p := NewGranted()
	t0 := time.Date(2025, 12, 22, 8, 0, 0, 0, time.UTC)

	ids, err := p.InsertRecords(ctx, []healthplatform.Record{rec(t0.Add(time.Hour), 37), rec(t0, 36.5)})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(ids) != 2 || ids[0] == "" || ids[0] == ids[1] {
		t.Fatalf("unexpected ids %v", ids)
	}

	got, err := p.ReadRecords(ctx, healthplatform.RecordTypeBodyTemperature, healthplatform.TimeRange{Start: t0, End: t0.Add(time.Hour)})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].ID != ids[1] || got[1].ID != ids[0] {
		t.Fatalf("expected both records ascending by time, got %#v", got)
	}

	got, _ = p.ReadRecords(ctx, healthplatform.RecordTypeBodyTemperature, healthplatform.TimeRange{Start: t0.Add(time.Minute), End: t0.Add(2 * time.Hour)})
	if len(got) != 1 || got[0].ID != ids[0] {
		t.Fatalf("expected only the later record, got %#v", got)
	}

	if err := p.DeleteRecords(ctx, healthplatform.RecordTypeBodyTemperature, []string{ids[0]}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := p.DeleteRecords(ctx, healthplatform.RecordTypeBodyTemperature, []string{ids[0]}); !errors.Is(err, healthplatform.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPlatform_EnforcesPermissions(t *testing.T) {
	ctx := context.Background()
	p := New()
	_ = p.Grant(ctx, healthplatform.PermissionReadBodyTemperature)

	if _, err := p.InsertRecords(ctx, []healthplatform.Record{rec(time.Now(), 37)}); !errors.Is(err, healthplatform.ErrPermissionNotGranted) {
		t.Fatalf("expected ErrPermissionNotGranted, got %v", err)
	}
	if _, err := p.ReadRecords(ctx, healthplatform.RecordTypeBodyTemperature, healthplatform.TimeRange{End: time.Now()}); err != nil {
		t.Fatalf("read must be allowed: %v", err)
	}

	_ = p.Revoke(ctx, healthplatform.PermissionReadBodyTemperature)
	if _, err := p.ReadRecords(ctx, healthplatform.RecordTypeBodyTemperature, healthplatform.TimeRange{End: time.Now()}); !errors.Is(err, healthplatform.ErrPermissionNotGranted) {
		t.Fatalf("expected ErrPermissionNotGranted after revoke, got %v", err)
	}
}

func TestPlatform_UnavailableAndUnsupported(t *testing.T) {
	ctx := context.Background()
	p := NewGranted()

	if _, err := p.ReadRecords(ctx, "HeartRate", healthplatform.TimeRange{}); !errors.Is(err, healthplatform.ErrUnsupportedRecordType) {
		t.Fatalf("expected ErrUnsupportedRecordType, got %v", err)
	}

	p.SetAvailable(false)
	if p.IsAvailable() {
		t.Fatalf("expected unavailable")
	}
	if _, err := p.GrantedPermissions(ctx); !errors.Is(err, healthplatform.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
