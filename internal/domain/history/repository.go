package history

import (
	"context"
	"time"

	"temperature-history/internal/domain/temperature"
)

// Repository es lo que el historial necesita del manager de temperatura.
type Repository interface {
	Read(ctx context.Context, start, end time.Time) ([]temperature.Measurement, error)
	Delete(ctx context.Context, recordID string) error
}
