package temperature

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/ports/healthplatform"
)

// Manager es el repositorio de temperatura: único punto que habla con la plataforma.
// No guarda estado por operación, así que se puede usar concurrentemente.
// No coordina orden entre writes/deletes/reads concurrentes (la plataforma tampoco).
type Manager struct {
	client      healthplatform.Client
	permissions PermissionSet

	now        func() time.Time
	zone       *time.Location
	nativeUnit Unit
	log        logger.Logger
}

type Options struct {
	// Zone es la zona del host para calcular offsets (default time.Local).
	Zone *time.Location
	// NativeUnit es la unidad en la que se escribe a la plataforma (default Celsius).
	NativeUnit Unit
	Logger     logger.Logger
}

func NewManager(client healthplatform.Client, opts Options) *Manager {
	zone := opts.Zone
	if zone == nil {
		zone = time.Local
	}
	unit := opts.NativeUnit
	if unit == "" {
		unit = Celsius
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Manager{
		client:      client,
		permissions: DefaultPermissions(),
		now:         time.Now,
		zone:        zone,
		nativeUnit:  unit,
		log:         log.With(map[string]any{"component": "temperature_manager"}),
	}
}

func (m *Manager) Permissions() PermissionSet {
	out := make(PermissionSet, len(m.permissions))
	copy(out, m.permissions)
	return out
}

// IsPlatformAvailable nunca falla: cualquier problema de detección => false.
func (m *Manager) IsPlatformAvailable() (ok bool) {
	if m == nil || m.client == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("availability check panicked", map[string]any{"panic": fmt.Sprint(r)})
			ok = false
		}
	}()
	return m.client.IsAvailable()
}

// HasAllPermissions consulta los permisos otorgados.
// Si la consulta falla, el error se propaga (el caller no puede seguir sin esta respuesta).
func (m *Manager) HasAllPermissions(ctx context.Context) (bool, error) {
	granted, err := m.client.GrantedPermissions(ctx)
	if err != nil {
		m.log.Error("granted permissions query failed", map[string]any{"err": err})
		return false, fmt.Errorf("%w: %w", ErrPlatformOperationFailed, err)
	}
	ok := m.permissions.SatisfiedBy(granted)
	if !ok {
		m.log.Info("permissions missing", map[string]any{"missing": m.permissions.Missing(granted)})
	}
	return ok, nil
}

// MissingPermissions lista los permisos del set que la plataforma no otorgó.
func (m *Manager) MissingPermissions(ctx context.Context) ([]string, error) {
	granted, err := m.client.GrantedPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlatformOperationFailed, err)
	}
	return m.permissions.Missing(granted), nil
}

// Read trae las mediciones con timestamp en [start, end], en el orden que entrega la plataforma.
// Ordenar es responsabilidad del caller.
func (m *Manager) Read(ctx context.Context, start, end time.Time) ([]Measurement, error) {
	if start.After(end) {
		return nil, ErrInvalidInput
	}
	if err := m.gate(ctx); err != nil {
		return nil, err
	}

	records, err := m.client.ReadRecords(ctx, healthplatform.RecordTypeBodyTemperature, healthplatform.TimeRange{
		Start: start,
		End:   end,
	})
	if err != nil {
		m.log.Error("read records failed", map[string]any{"err": err})
		return nil, m.wrap(err)
	}

	out := make([]Measurement, 0, len(records))
	for _, rec := range records {
		out = append(out, m.toMeasurement(rec))
	}

	m.log.Debug("records read", map[string]any{"count": len(out)})
	return out, nil
}

// Write inserta una lectura. No valida plausibilidad: eso es del state machine.
// Devuelve el record id asignado por la plataforma.
func (m *Manager) Write(ctx context.Context, valueCelsius float64, takenAt time.Time, subject *identity.Identity) (string, error) {
	if takenAt.IsZero() {
		takenAt = m.now()
	}
	if err := m.gate(ctx); err != nil {
		return "", err
	}

	offset := m.offsetAt(takenAt)
	rec := healthplatform.Record{
		ClientRecordID: identity.Encode(subject),
		Time:           takenAt,
		ZoneOffset:     &offset,
		Temperature: healthplatform.Temperature{
			Value: FromCelsius(valueCelsius, m.nativeUnit),
			Unit:  m.nativeUnit,
		},
		RecordingMethod: healthplatform.RecordingMethodActivelyRecorded,
	}

	ids, err := m.client.InsertRecords(ctx, []healthplatform.Record{rec})
	if err != nil {
		m.log.Error("insert record failed", map[string]any{"err": err})
		return "", m.wrap(err)
	}
	if len(ids) == 0 || strings.TrimSpace(ids[0]) == "" {
		return "", fmt.Errorf("%w: platform returned no record id", ErrPlatformOperationFailed)
	}

	m.log.Info("record written", map[string]any{"record_id": ids[0]})
	return ids[0], nil
}

// Delete borra un registro. Falla si no existe o si se revocó el permiso.
func (m *Manager) Delete(ctx context.Context, recordID string) error {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return ErrInvalidInput
	}
	if err := m.gate(ctx); err != nil {
		return err
	}

	if err := m.client.DeleteRecords(ctx, healthplatform.RecordTypeBodyTemperature, []string{recordID}); err != nil {
		m.log.Error("delete record failed", map[string]any{"record_id": recordID, "err": err})
		return m.wrap(err)
	}

	m.log.Info("record deleted", map[string]any{"record_id": recordID})
	return nil
}

// gate: plataforma disponible + PermissionSet completo antes de cualquier read/write/delete.
func (m *Manager) gate(ctx context.Context) error {
	if !m.IsPlatformAvailable() {
		return ErrPlatformUnavailable
	}
	ok, err := m.HasAllPermissions(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

// wrap traduce errores de la plataforma a los kinds del dominio, conservando la causa.
func (m *Manager) wrap(err error) error {
	switch {
	case errors.Is(err, healthplatform.ErrPermissionNotGranted):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, healthplatform.ErrUnavailable):
		return fmt.Errorf("%w: %w", ErrPlatformUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", ErrPlatformOperationFailed, err)
	}
}

func (m *Manager) toMeasurement(rec healthplatform.Record) Measurement {
	var offset int
	if rec.ZoneOffset != nil {
		offset = *rec.ZoneOffset
	} else {
		offset = m.offsetAt(rec.Time)
	}

	return Measurement{
		RecordID:     rec.ID,
		ValueCelsius: ToCelsius(rec.Temperature.Value, rec.Temperature.Unit),
		TakenAt:      rec.Time,
		ZoneOffset:   offset,
		Subject:      identity.Decode(rec.ClientRecordID),
	}
}

func (m *Manager) offsetAt(t time.Time) int {
	_, offset := t.In(m.zone).Zone()
	return offset
}
