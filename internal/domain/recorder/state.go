package recorder

import (
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/temperature"
)

type Kind string

const (
	KindIdle              Kind = "idle"
	KindChecking          Kind = "checking"
	KindPermissionGranted Kind = "permission_granted"
	KindPermissionDenied  Kind = "permission_denied"
	KindSubmitting        Kind = "submitting"
	KindRecorded          Kind = "recorded"
	KindFailed            Kind = "failed"
)

// State es la unión etiquetada que publica el recorder.
// RecordID, ValueCelsius, TakenAt y Subject sólo aplican a Recorded; Reason sólo a Failed.
type State struct {
	Kind         Kind
	RecordID     string
	ValueCelsius float64
	TakenAt      time.Time
	Subject      *identity.Identity
	Reason       string

	// Message es texto listo para mostrar (éxito o error).
	Message string
	Err     error
}

func Idle() State { return State{Kind: KindIdle} }

func (s State) IsTerminal() bool {
	switch s.Kind {
	case KindPermissionGranted, KindPermissionDenied, KindRecorded, KindFailed:
		return true
	default:
		return false
	}
}

// RecentList es el segundo observable: lecturas recientes para mostrar tras un write.
// Si el último refresh falló, Items conserva lo anterior y Reason trae el motivo.
type RecentList struct {
	Items     []temperature.Measurement
	From      time.Time
	To        time.Time
	Reason    string
	Refreshed time.Time
}
