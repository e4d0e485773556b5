package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	wire "temperature-history/internal/adapters/healthplatform"
	"temperature-history/internal/platform/httpclient"
	"temperature-history/internal/ports/healthplatform"

	"github.com/sony/gobreaker"
)

var (
	ErrNotConfigured = errors.New("remote platform not configured")
	ErrUpstream      = errors.New("remote platform upstream error")
	ErrCircuitOpen   = errors.New("remote platform circuit open")
)

type Config struct {
	BaseURL string
	APIKey  string

	APIKeyHeader string
	Timeout      time.Duration
}

// Client habla con un gateway de plataforma por HTTP.
// No reintenta: un fallo se devuelve al caller tal cual.
type Client struct {
	http    *httpclient.Client
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, ErrNotConfigured
	}
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.NewWithBaseURL(base, timeout)
	if err != nil {
		return nil, err
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		hc.Headers = map[string]string{h: key}
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "health-platform",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		// 4xx son respuestas válidas de la plataforma, no fallas del upstream.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			status := httpclient.StatusCode(err)
			return status > 0 && status < 500
		},
	})

	return &Client{http: hc, timeout: timeout, circuit: cb}, nil
}

// IsAvailable nunca falla: error de red, circuito abierto o respuesta inválida => false.
func (c *Client) IsAvailable() bool {
	if c == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var out wire.AvailabilityResponse
	if err := c.do(ctx, http.MethodGet, wire.PathAvailability, nil, &out); err != nil {
		return false
	}
	return out.Available
}

func (c *Client) GrantedPermissions(ctx context.Context) ([]string, error) {
	var out wire.PermissionsResponse
	if err := c.do(ctx, http.MethodGet, wire.PathPermissions, nil, &out); err != nil {
		return nil, err
	}
	if out.Granted == nil {
		out.Granted = []string{}
	}
	return out.Granted, nil
}

func (c *Client) InsertRecords(ctx context.Context, records []healthplatform.Record) ([]string, error) {
	var out wire.InsertResponse
	if err := c.do(ctx, http.MethodPost, recordsPath(healthplatform.RecordTypeBodyTemperature), wire.InsertRequest{Records: records}, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

func (c *Client) ReadRecords(ctx context.Context, recordType healthplatform.RecordType, tr healthplatform.TimeRange) ([]healthplatform.Record, error) {
	q := url.Values{}
	q.Set("start", tr.Start.UTC().Format(time.RFC3339Nano))
	q.Set("end", tr.End.UTC().Format(time.RFC3339Nano))

	var out wire.ReadResponse
	if err := c.do(ctx, http.MethodGet, recordsPath(recordType)+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if out.Records == nil {
		out.Records = []healthplatform.Record{}
	}
	return out.Records, nil
}

func (c *Client) DeleteRecords(ctx context.Context, recordType healthplatform.RecordType, ids []string) error {
	return c.do(ctx, http.MethodPost, recordsPath(recordType)+"/delete", wire.DeleteRequest{IDs: ids}, nil)
}

// Grant/Revoke sólo funcionan si el gateway expone los endpoints de dev.
func (c *Client) Grant(ctx context.Context, perms ...string) error {
	return c.do(ctx, http.MethodPost, wire.PathPermissions+"/grant", wire.PermissionsRequest{Permissions: perms}, nil)
}

func (c *Client) Revoke(ctx context.Context, perms ...string) error {
	return c.do(ctx, http.MethodPost, wire.PathPermissions+"/revoke", wire.PermissionsRequest{Permissions: perms}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.http == nil {
		return ErrNotConfigured
	}

	_, err := c.circuit.Execute(func() (interface{}, error) {
		return nil, c.http.DoJSON(ctx, method, path, nil, in, out)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", healthplatform.ErrUnavailable, ErrCircuitOpen)
	}
	return mapError(err)
}

func recordsPath(recordType healthplatform.RecordType) string {
	return strings.Replace(wire.PathRecords, "{recordType}", url.PathEscape(string(recordType)), 1)
}

// mapError traduce status del gateway a los errores del port.
func mapError(err error) error {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	detail := he.Message
	if detail == "" {
		detail = he.Body
	}
	switch he.StatusCode {
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", healthplatform.ErrPermissionNotGranted, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", healthplatform.ErrRecordNotFound, detail)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", healthplatform.ErrUnavailable, detail)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", healthplatform.ErrUnsupportedRecordType, detail)
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, he)
	}
}
