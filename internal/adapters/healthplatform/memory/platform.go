package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"temperature-history/internal/ports/healthplatform"

	"github.com/google/uuid"
)

// Platform es una plataforma de salud en proceso (dev/tests).
// Aplica el mismo modelo de permisos que la real: leer requiere read, insertar y borrar requieren write.
type Platform struct {
	mu        sync.RWMutex
	byID      map[string]healthplatform.Record
	order     []string
	granted   map[string]bool
	available bool
}

func New() *Platform {
	return &Platform{
		byID:      make(map[string]healthplatform.Record),
		granted:   make(map[string]bool),
		available: true,
	}
}

// NewGranted crea la plataforma con los permisos de temperatura ya otorgados.
func NewGranted() *Platform {
	p := New()
	_ = p.Grant(context.Background(), healthplatform.PermissionReadBodyTemperature, healthplatform.PermissionWriteBodyTemperature)
	return p
}

// Grant y Revoke tienen la misma firma que en sqlstore y remote (administración dev).
func (p *Platform) Grant(ctx context.Context, perms ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, perm := range perms {
		if perm = strings.TrimSpace(perm); perm != "" {
			p.granted[perm] = true
		}
	}
	return nil
}

func (p *Platform) Revoke(ctx context.Context, perms ...string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, perm := range perms {
		delete(p.granted, strings.TrimSpace(perm))
	}
	return nil
}

func (p *Platform) SetAvailable(ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.available = ok
}

func (p *Platform) IsAvailable() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.available
}

func (p *Platform) GrantedPermissions(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.available {
		return nil, healthplatform.ErrUnavailable
	}
	out := make([]string, 0, len(p.granted))
	for perm := range p.granted {
		out = append(out, perm)
	}
	sort.Strings(out)
	return out, nil
}

func (p *Platform) InsertRecords(ctx context.Context, records []healthplatform.Record) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(healthplatform.PermissionWriteBodyTemperature); err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.Time.IsZero() {
			return nil, errors.New("record time required")
		}
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		rec.ID = uuid.NewString()
		if rec.RecordingMethod == "" {
			rec.RecordingMethod = healthplatform.RecordingMethodUnknown
		}
		p.byID[rec.ID] = rec
		p.order = append(p.order, rec.ID)
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

// ReadRecords devuelve los registros en [Start, End] ordenados por tiempo ascendente.
func (p *Platform) ReadRecords(ctx context.Context, recordType healthplatform.RecordType, tr healthplatform.TimeRange) ([]healthplatform.Record, error) {
	if recordType != healthplatform.RecordTypeBodyTemperature {
		return nil, healthplatform.ErrUnsupportedRecordType
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.check(healthplatform.PermissionReadBodyTemperature); err != nil {
		return nil, err
	}

	out := make([]healthplatform.Record, 0)
	for _, id := range p.order {
		rec := p.byID[id]
		if tr.Contains(rec.Time) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out, nil
}

// DeleteRecords es todo o nada: si algún id no existe no se borra ninguno.
func (p *Platform) DeleteRecords(ctx context.Context, recordType healthplatform.RecordType, ids []string) error {
	if recordType != healthplatform.RecordTypeBodyTemperature {
		return healthplatform.ErrUnsupportedRecordType
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(healthplatform.PermissionWriteBodyTemperature); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := p.byID[id]; !ok {
			return healthplatform.ErrRecordNotFound
		}
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		delete(p.byID, id)
		drop[id] = true
	}
	kept := p.order[:0]
	for _, id := range p.order {
		if !drop[id] {
			kept = append(kept, id)
		}
	}
	p.order = kept
	return nil
}

// check asume el lock tomado.
func (p *Platform) check(perm string) error {
	if !p.available {
		return healthplatform.ErrUnavailable
	}
	if !p.granted[perm] {
		return healthplatform.ErrPermissionNotGranted
	}
	return nil
}
