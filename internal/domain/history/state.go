package history

import "temperature-history/internal/domain/temperature"

type Kind string

const (
	KindIdle     Kind = "idle"
	KindLoading  Kind = "loading"
	KindLoaded   Kind = "loaded"
	KindDeleting Kind = "deleting"
	KindFailed   Kind = "failed"
)

// State es la unión etiquetada del browser de historial.
// Readings sólo aplica a Loaded, RecordID a Deleting, Reason a Failed.
type State struct {
	Kind     Kind
	Readings []temperature.DisplayReading
	RecordID string
	Reason   string

	Message string
	Err     error
}

func Idle() State { return State{Kind: KindIdle} }

func Loaded(readings []temperature.DisplayReading) State {
	if readings == nil {
		readings = []temperature.DisplayReading{}
	}
	return State{Kind: KindLoaded, Readings: readings}
}
