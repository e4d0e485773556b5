package temperature

import (
	"math"
	"strconv"
	"strings"

	"temperature-history/internal/ports/healthplatform"
)

// Rango físicamente plausible para temperatura corporal, cerrado en ambos extremos.
const (
	MinPlausibleCelsius = 20.0
	MaxPlausibleCelsius = 45.0
)

type Unit = healthplatform.TemperatureUnit

const (
	Celsius    = healthplatform.UnitCelsius
	Fahrenheit = healthplatform.UnitFahrenheit
)

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// IsPhysicallyPlausible es la única compuerta de admisión para escrituras e input interactivo.
func IsPhysicallyPlausible(c float64) bool {
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return false
	}
	return c >= MinPlausibleCelsius && c <= MaxPlausibleCelsius
}

// ParseCelsius recorta espacios y parsea un decimal.
// Vacío, no numérico, NaN o Inf => ErrInvalidInput.
func ParseCelsius(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrInvalidInput
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidInput
	}
	return v, nil
}

// ToCelsius convierte un valor en la unidad dada a Celsius. Unidad vacía = Celsius.
func ToCelsius(v float64, unit Unit) float64 {
	if unit == Fahrenheit {
		return FahrenheitToCelsius(v)
	}
	return v
}

// FromCelsius convierte Celsius a la unidad dada. Unidad vacía = Celsius.
func FromCelsius(c float64, unit Unit) float64 {
	if unit == Fahrenheit {
		return CelsiusToFahrenheit(c)
	}
	return c
}

// ParseUnit acepta "C"/"F" y variantes largas; vacío => Celsius.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", "celsius":
		return Celsius, true
	case "f", "fahrenheit":
		return Fahrenheit, true
	default:
		return "", false
	}
}
