package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"temperature-history/internal/ports/healthplatform"

	"github.com/google/uuid"
)

// Store es una plataforma de salud durable sobre database/sql (Postgres o SQLite).
// Los tiempos se guardan en epoch ms para que el SQL sea igual en ambos motores.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

func (s *Store) q(query string) string { return s.dialect.rebind(query) }

// Migrate crea las tablas si no existen.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) Grant(ctx context.Context, perms ...string) error {
	for _, perm := range perms {
		perm = strings.TrimSpace(perm)
		if perm == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, s.q(`
			INSERT INTO granted_permissions (permission) VALUES ($1)
			ON CONFLICT (permission) DO NOTHING
		`), perm); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Revoke(ctx context.Context, perms ...string) error {
	for _, perm := range perms {
		if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM granted_permissions WHERE permission = $1`), strings.TrimSpace(perm)); err != nil {
			return err
		}
	}
	return nil
}

// IsAvailable hace ping con timeout corto; cualquier error => false.
func (s *Store) IsAvailable() bool {
	if s == nil || s.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.db.PingContext(ctx) == nil
}

func (s *Store) GrantedPermissions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT permission FROM granted_permissions ORDER BY permission`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var perm string
		if err := rows.Scan(&perm); err != nil {
			return nil, err
		}
		out = append(out, perm)
	}
	return out, rows.Err()
}

func (s *Store) InsertRecords(ctx context.Context, records []healthplatform.Record) ([]string, error) {
	if err := s.require(ctx, healthplatform.PermissionWriteBodyTemperature); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Time.IsZero() {
			return nil, errors.New("record time required")
		}
		id := uuid.NewString()
		method := rec.RecordingMethod
		if method == "" {
			method = healthplatform.RecordingMethodUnknown
		}

		var offset sql.NullInt64
		if rec.ZoneOffset != nil {
			offset = sql.NullInt64{Int64: int64(*rec.ZoneOffset), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO body_temperature_records (
				id, client_record_id, time_ms, zone_offset,
				value, unit, recording_method
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`),
			id,
			rec.ClientRecordID,
			rec.Time.UnixMilli(),
			offset,
			rec.Temperature.Value,
			string(rec.Temperature.Unit),
			method,
		); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ReadRecords devuelve los registros en [Start, End] por tiempo ascendente.
func (s *Store) ReadRecords(ctx context.Context, recordType healthplatform.RecordType, tr healthplatform.TimeRange) ([]healthplatform.Record, error) {
	if recordType != healthplatform.RecordTypeBodyTemperature {
		return nil, healthplatform.ErrUnsupportedRecordType
	}
	if err := s.require(ctx, healthplatform.PermissionReadBodyTemperature); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT id, client_record_id, time_ms, zone_offset, value, unit, recording_method
		FROM body_temperature_records
		WHERE time_ms >= $1 AND time_ms <= $2
		ORDER BY time_ms ASC, id ASC
	`), tr.Start.UnixMilli(), tr.End.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]healthplatform.Record, 0)
	for rows.Next() {
		var rec healthplatform.Record
		var ms int64
		var offset sql.NullInt64
		var unit string

		if err := rows.Scan(
			&rec.ID,
			&rec.ClientRecordID,
			&ms,
			&offset,
			&rec.Temperature.Value,
			&unit,
			&rec.RecordingMethod,
		); err != nil {
			return nil, err
		}

		rec.Time = time.UnixMilli(ms).UTC()
		rec.Temperature.Unit = healthplatform.TemperatureUnit(unit)
		if offset.Valid {
			v := int(offset.Int64)
			rec.ZoneOffset = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteRecords es todo o nada: un id inexistente deshace el borrado.
func (s *Store) DeleteRecords(ctx context.Context, recordType healthplatform.RecordType, ids []string) error {
	if recordType != healthplatform.RecordTypeBodyTemperature {
		return healthplatform.ErrUnsupportedRecordType
	}
	if err := s.require(ctx, healthplatform.PermissionWriteBodyTemperature); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM body_temperature_records WHERE id = $1`), id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return healthplatform.ErrRecordNotFound
		}
	}
	return tx.Commit()
}

func (s *Store) require(ctx context.Context, perm string) error {
	var n int
	row := s.db.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM granted_permissions WHERE permission = $1`), perm)
	if err := row.Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return healthplatform.ErrPermissionNotGranted
	}
	return nil
}
