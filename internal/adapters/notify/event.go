// Package notify publica eventos de dominio hacia afuera (cola de mensajes).
package notify

import (
	"context"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/recorder"
	"temperature-history/internal/platform/logger"
)

const EventTemperatureRecorded = "temperature.recorded"

type Event struct {
	Type         string    `json:"type"`
	RecordID     string    `json:"record_id"`
	ValueCelsius float64   `json:"value_celsius"`
	RecordedAt   time.Time `json:"recorded_at"`
	Subject      string    `json:"subject,omitempty"` // identidad codificada
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Forward publica un evento por cada transición a Recorded del recorder.
// La publicación corre fuera del callback para no frenar al recorder.
// Devuelve la función para cortar el reenvío.
func Forward(rec *recorder.Recorder, pub Publisher, timeout time.Duration, log logger.Logger) func() {
	if log == nil {
		log = logger.Nop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	// el valor actual ya se publicó (o es anterior a Forward)
	var last string
	if cur := rec.State().Get(); cur.Kind == recorder.KindRecorded {
		last = cur.RecordID
	}
	return rec.State().Subscribe(func(s recorder.State) {
		if s.Kind != recorder.KindRecorded || s.RecordID == last {
			return
		}
		last = s.RecordID

		e := Event{
			Type:         EventTemperatureRecorded,
			RecordID:     s.RecordID,
			ValueCelsius: s.ValueCelsius,
			RecordedAt:   s.TakenAt,
			Subject:      identity.Encode(s.Subject),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := pub.Publish(ctx, e); err != nil {
				log.Warn("publish event failed", map[string]any{"record_id": e.RecordID, "err": err})
			}
		}()
	})
}
