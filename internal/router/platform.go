package router

import (
	"context"
	"database/sql"
	"fmt"

	"temperature-history/internal/adapters/healthplatform/gateway"
	"temperature-history/internal/adapters/healthplatform/memory"
	"temperature-history/internal/adapters/healthplatform/remote"
	"temperature-history/internal/adapters/healthplatform/sqlstore"
	"temperature-history/internal/config"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/ports/healthplatform"
)

// Platform es el backend elegido por config, listo para el manager.
type Platform struct {
	Client healthplatform.Client
	// Admin permite grant/revoke (dev); nil si el backend no lo soporta.
	Admin gateway.PermissionAdmin
	Close func() error
}

// OpenPlatform abre el backend según PLATFORM_DRIVER.
func OpenPlatform(ctx context.Context, cfg config.Config, log logger.Logger) (Platform, error) {
	if log == nil {
		log = logger.Nop()
	}
	noop := func() error { return nil }
	grantAll := []string{healthplatform.PermissionReadBodyTemperature, healthplatform.PermissionWriteBodyTemperature}

	switch cfg.PlatformDriver {
	case config.DriverMemory, "":
		p := memory.New()
		if cfg.DevGrantAll {
			_ = p.Grant(ctx, grantAll...)
		}
		log.Info("platform opened", map[string]any{"driver": "memory"})
		return Platform{Client: p, Admin: p, Close: noop}, nil

	case config.DriverPostgres, config.DriverSQLite:
		var (
			db      *sql.DB
			err     error
			dialect sqlstore.Dialect
		)
		if cfg.PlatformDriver == config.DriverPostgres {
			db, err = sqlstore.OpenPostgres(cfg.PostgresDSN)
			dialect = sqlstore.DialectPostgres
		} else {
			db, err = sqlstore.OpenSQLite(cfg.SQLitePath)
			dialect = sqlstore.DialectSQLite
		}
		if err != nil {
			return Platform{}, fmt.Errorf("open %s: %w", cfg.PlatformDriver, err)
		}

		s := sqlstore.New(db, dialect)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return Platform{}, err
		}
		if cfg.DevGrantAll {
			if err := s.Grant(ctx, grantAll...); err != nil {
				_ = db.Close()
				return Platform{}, err
			}
		}
		log.Info("platform opened", map[string]any{"driver": string(cfg.PlatformDriver)})
		return Platform{Client: s, Admin: s, Close: db.Close}, nil

	case config.DriverRemote:
		c, err := remote.NewClient(remote.Config{
			BaseURL: cfg.PlatformURL,
			APIKey:  cfg.PlatformAPIKey,
			Timeout: cfg.PlatformTimeout,
		})
		if err != nil {
			return Platform{}, err
		}
		log.Info("platform opened", map[string]any{"driver": "remote", "url": cfg.PlatformURL})
		return Platform{Client: c, Admin: c, Close: noop}, nil

	default:
		return Platform{}, fmt.Errorf("unsupported platform driver %q", cfg.PlatformDriver)
	}
}
