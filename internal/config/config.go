package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix de todas las variables: TEMPERATURE_HTTP_PORT, TEMPERATURE_PLATFORM_DRIVER, ...
const Prefix = "TEMPERATURE"

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverRemote   Driver = "remote"
)

type Config struct {
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	AppName   string `envconfig:"APP_NAME" default:"temperature-history"`

	// Backend de la plataforma de salud.
	PlatformDriver  Driver        `envconfig:"PLATFORM_DRIVER" default:"memory"`
	PostgresDSN     string        `envconfig:"POSTGRES_DSN"`
	SQLitePath      string        `envconfig:"SQLITE_PATH" default:"data/platform.db"`
	PlatformURL     string        `envconfig:"PLATFORM_URL"`
	PlatformAPIKey  string        `envconfig:"PLATFORM_API_KEY"`
	PlatformTimeout time.Duration `envconfig:"PLATFORM_TIMEOUT" default:"5s"`

	// DevGrantAll otorga ambos permisos al arrancar (memory/sql).
	DevGrantAll bool `envconfig:"DEV_GRANT_ALL" default:"true"`
	// ExposeGateway monta /v1/... para que otra instancia use este proceso como plataforma.
	// Exige GatewayAPIKey: el gateway incluye grant/revoke de permisos.
	ExposeGateway bool   `envconfig:"EXPOSE_GATEWAY" default:"false"`
	GatewayAPIKey string `envconfig:"GATEWAY_API_KEY"`

	NativeUnit            string        `envconfig:"NATIVE_UNIT" default:"C"`
	RecentWindow          time.Duration `envconfig:"RECENT_WINDOW" default:"24h"`
	RecentRefreshInterval time.Duration `envconfig:"RECENT_REFRESH_INTERVAL" default:"0s"`

	AMQPURL   string `envconfig:"AMQP_URL"`
	AMQPQueue string `envconfig:"AMQP_QUEUE" default:"temperature.recorded"`
}

// Load lee .env (si existe) y luego el entorno con prefijo TEMPERATURE.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.PlatformDriver = Driver(strings.ToLower(strings.TrimSpace(string(cfg.PlatformDriver))))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate chequea que cada driver tenga lo que necesita.
func (c Config) Validate() error {
	var errs []error

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort))
	}

	switch c.PlatformDriver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("POSTGRES_DSN required for postgres driver"))
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.New("SQLITE_PATH required for sqlite driver"))
		}
	case DriverRemote:
		if strings.TrimSpace(c.PlatformURL) == "" {
			errs = append(errs, errors.New("PLATFORM_URL required for remote driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported PLATFORM_DRIVER: %q", c.PlatformDriver))
	}

	switch strings.ToUpper(strings.TrimSpace(c.NativeUnit)) {
	case "C", "F":
	default:
		errs = append(errs, fmt.Errorf("NATIVE_UNIT must be C or F, got %q", c.NativeUnit))
	}

	if c.ExposeGateway && strings.TrimSpace(c.GatewayAPIKey) == "" {
		errs = append(errs, errors.New("GATEWAY_API_KEY required when EXPOSE_GATEWAY is set"))
	}

	if c.RecentWindow <= 0 {
		errs = append(errs, errors.New("RECENT_WINDOW must be positive"))
	}
	if c.RecentRefreshInterval < 0 {
		errs = append(errs, errors.New("RECENT_REFRESH_INTERVAL must not be negative"))
	}

	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
