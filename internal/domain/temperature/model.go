package temperature

import (
	"fmt"
	"time"

	"temperature-history/internal/domain/identity"
)

// Measurement es una lectura tal como la guarda la plataforma.
// RecordID lo asigna la plataforma y es inmutable. Subject es opcional.
type Measurement struct {
	RecordID     string
	ValueCelsius float64
	TakenAt      time.Time
	ZoneOffset   int // segundos al este de UTC

	Subject *identity.Identity
}

// Local devuelve TakenAt en el offset con el que se registró.
func (m Measurement) Local() time.Time {
	return m.TakenAt.In(time.FixedZone("", m.ZoneOffset))
}

const (
	displayDateLayout = "Jan 02, 2006"
	displayTimeLayout = "03:04 PM"
)

// DisplayReading es la proyección para presentación. Se deriva on demand, nunca se persiste.
type DisplayReading struct {
	RecordID        string
	ValueCelsius    float64
	ValueFahrenheit float64
	TakenAt         time.Time

	Date               string
	Time               string
	FormattedTimestamp string

	Subject *identity.Identity
}

func (d DisplayReading) FormattedCelsius() string {
	return fmt.Sprintf("%.1f°C", d.ValueCelsius)
}

func (d DisplayReading) FormattedFahrenheit() string {
	return fmt.Sprintf("%.1f°F", d.ValueFahrenheit)
}

func ToDisplayReading(m Measurement) DisplayReading {
	local := m.Local()
	date := local.Format(displayDateLayout)
	clock := local.Format(displayTimeLayout)

	return DisplayReading{
		RecordID:           m.RecordID,
		ValueCelsius:       m.ValueCelsius,
		ValueFahrenheit:    CelsiusToFahrenheit(m.ValueCelsius),
		TakenAt:            m.TakenAt,
		Date:               date,
		Time:               clock,
		FormattedTimestamp: date + " at " + clock,
		Subject:            m.Subject,
	}
}
