package temperature

import (
	"math"
	"testing"
)

func TestCelsiusFahrenheit_Inverse(t *testing.T) {
	for c := -50.0; c <= 150.0; c += 0.37 {
		back := FahrenheitToCelsius(CelsiusToFahrenheit(c))
		if math.Abs(back-c) > 1e-9 {
			t.Fatalf("round trip for %v gave %v", c, back)
		}
	}
}

func TestCelsiusToFahrenheit_KnownPoints(t *testing.T) {
	if CelsiusToFahrenheit(0) != 32 {
		t.Fatalf("0°C must be 32°F")
	}
	if CelsiusToFahrenheit(100) != 212 {
		t.Fatalf("100°C must be 212°F")
	}
	if math.Abs(CelsiusToFahrenheit(37)-98.6) > 1e-9 {
		t.Fatalf("37°C must be 98.6°F, got %v", CelsiusToFahrenheit(37))
	}
}

func TestIsPhysicallyPlausible_Bounds(t *testing.T) {
	cases := []struct {
		c    float64
		want bool
	}{
		{19.9, false},
		{20.0, true},
		{37.0, true},
		{45.0, true},
		{45.1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}
	for _, tc := range cases {
		if got := IsPhysicallyPlausible(tc.c); got != tc.want {
			t.Fatalf("IsPhysicallyPlausible(%v) = %v, want %v", tc.c, got, tc.want)
		}
	}
}

func TestParseCelsius(t *testing.T) {
	v, err := ParseCelsius("  37.0  ")
	if err != nil || v != 37.0 {
		t.Fatalf("expected 37.0, got %v err=%v", v, err)
	}
	for _, in := range []string{"", "   ", "abc", "37,5", "NaN", "Inf", "37.0C"} {
		if _, err := ParseCelsius(in); err != ErrInvalidInput {
			t.Fatalf("ParseCelsius(%q): expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestUnitConversions(t *testing.T) {
	if FromCelsius(37, Fahrenheit) != CelsiusToFahrenheit(37) {
		t.Fatalf("FromCelsius F mismatch")
	}
	if FromCelsius(37, Celsius) != 37 || ToCelsius(37, "") != 37 {
		t.Fatalf("celsius must pass through")
	}
	if math.Abs(ToCelsius(98.6, Fahrenheit)-37) > 1e-9 {
		t.Fatalf("ToCelsius F mismatch")
	}
	if u, ok := ParseUnit("fahrenheit"); !ok || u != Fahrenheit {
		t.Fatalf("ParseUnit fahrenheit failed")
	}
	if _, ok := ParseUnit("kelvin"); ok {
		t.Fatalf("kelvin must be rejected")
	}
}
