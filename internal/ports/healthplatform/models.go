package healthplatform

import (
	"errors"
	"time"
)

var (
	ErrRecordNotFound        = errors.New("record not found")
	ErrUnsupportedRecordType = errors.New("unsupported record type")
	ErrPermissionNotGranted  = errors.New("permission not granted")
	ErrUnavailable           = errors.New("platform unavailable")
)

type RecordType string

const (
	RecordTypeBodyTemperature RecordType = "BodyTemperature"
)

// Permisos que entiende la plataforma para el único tipo de registro soportado.
const (
	PermissionReadBodyTemperature  = "body_temperature:read"
	PermissionWriteBodyTemperature = "body_temperature:write"
)

type TemperatureUnit string

const (
	UnitCelsius    TemperatureUnit = "C"
	UnitFahrenheit TemperatureUnit = "F"
)

type Temperature struct {
	Value float64         `json:"value"`
	Unit  TemperatureUnit `json:"unit"`
}

const (
	RecordingMethodUnknown          = "unknown"
	RecordingMethodActivelyRecorded = "actively_recorded"
)

// Record es la representación nativa de la plataforma.
// ID lo asigna la plataforma al insertar; ClientRecordID es texto libre del cliente.
type Record struct {
	ID             string      `json:"id"`
	ClientRecordID string      `json:"client_record_id,omitempty"`
	Time           time.Time   `json:"time"`
	ZoneOffset     *int        `json:"zone_offset_seconds,omitempty"` // segundos al este de UTC
	Temperature    Temperature `json:"temperature"`

	RecordingMethod string `json:"recording_method,omitempty"`
}

// TimeRange es cerrado en ambos extremos: [Start, End].
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && !t.After(tr.End)
}

// HasPermission valida si el set otorgado incluye un permiso.
func HasPermission(granted []string, perm string) bool {
	for _, g := range granted {
		if g == perm {
			return true
		}
	}
	return false
}
