package recorder

import (
	"context"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/temperature"
)

// Repository es lo que el recorder necesita del manager de temperatura.
type Repository interface {
	HasAllPermissions(ctx context.Context) (bool, error)
	Write(ctx context.Context, valueCelsius float64, takenAt time.Time, subject *identity.Identity) (string, error)
	Read(ctx context.Context, start, end time.Time) ([]temperature.Measurement, error)
}
