package healthplatform

import "context"

// Client es el contrato angosto que el core usa de la plataforma de salud.
// Cualquier adapter (memory, sql, remote) o un fake de test lo implementa.
type Client interface {
	// IsAvailable es una comprobación síncrona; no debe bloquear ni hacer panic.
	IsAvailable() bool

	GrantedPermissions(ctx context.Context) ([]string, error)
	InsertRecords(ctx context.Context, records []Record) ([]string, error)
	ReadRecords(ctx context.Context, recordType RecordType, tr TimeRange) ([]Record, error)
	DeleteRecords(ctx context.Context, recordType RecordType, ids []string) error
}
