// Package gateway expone cualquier healthplatform.Client por HTTP,
// con el contrato que consume el adapter remote.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	wire "temperature-history/internal/adapters/healthplatform"
	"temperature-history/internal/platform/httpjson"
	"temperature-history/internal/platform/logger"
	"temperature-history/internal/ports/healthplatform"

	"github.com/go-chi/chi/v5"
)

// PermissionAdmin es opcional: grant/revoke solo se montan si además hay APIKey.
type PermissionAdmin interface {
	Grant(ctx context.Context, perms ...string) error
	Revoke(ctx context.Context, perms ...string) error
}

type Options struct {
	Client healthplatform.Client
	Admin  PermissionAdmin
	Logger logger.Logger

	// APIKey vacío => rutas de lectura/escritura sin autenticación y sin grant/revoke.
	APIKey       string
	APIKeyHeader string
}

type handler struct {
	client healthplatform.Client
	log    logger.Logger
}

// Mount registra las rutas del gateway en r.
func Mount(r chi.Router, opts Options) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	h := &handler{client: opts.Client, log: log.With(map[string]any{"component": "platform_gateway"})}

	header := opts.APIKeyHeader
	if header == "" {
		header = "X-Api-Key"
	}

	if opts.Admin != nil && opts.APIKey == "" {
		h.log.Warn("permission admin routes disabled: no api key", nil)
	}

	r.Group(func(gr chi.Router) {
		if opts.APIKey != "" {
			gr.Use(requireAPIKey(header, opts.APIKey))
		}

		gr.Get(wire.PathAvailability, h.availability)
		gr.Get(wire.PathPermissions, h.permissions)
		gr.Get(wire.PathRecords, h.readRecords)
		gr.Post(wire.PathRecords, h.insertRecords)
		gr.Post(wire.PathRecords+"/delete", h.deleteRecords)

		if opts.Admin != nil && opts.APIKey != "" {
			gr.Post(wire.PathPermissions+"/grant", adminHandler(opts.Admin.Grant))
			gr.Post(wire.PathPermissions+"/revoke", adminHandler(opts.Admin.Revoke))
		}
	})
}

// NewHandler devuelve un router standalone con el gateway montado.
func NewHandler(opts Options) http.Handler {
	r := chi.NewRouter()
	Mount(r, opts)
	return r
}

func requireAPIKey(header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(header) != key {
				httpjson.Write(w, http.StatusUnauthorized, wire.ErrorResponse{Error: wire.CodeUnauthorized, Message: "missing or invalid api key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *handler) availability(w http.ResponseWriter, r *http.Request) {
	ok := false
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Warn("availability check panicked", nil)
			}
		}()
		ok = h.client.IsAvailable()
	}()
	httpjson.Write(w, http.StatusOK, wire.AvailabilityResponse{Available: ok})
}

func (h *handler) permissions(w http.ResponseWriter, r *http.Request) {
	granted, err := h.client.GrantedPermissions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, wire.PermissionsResponse{Granted: granted})
}

func (h *handler) readRecords(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339Nano, r.URL.Query().Get("start"))
	if err != nil {
		httpjson.Write(w, http.StatusBadRequest, wire.ErrorResponse{Error: wire.CodeInvalidRequest, Message: "start must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339Nano, r.URL.Query().Get("end"))
	if err != nil {
		httpjson.Write(w, http.StatusBadRequest, wire.ErrorResponse{Error: wire.CodeInvalidRequest, Message: "end must be RFC3339"})
		return
	}

	recordType := healthplatform.RecordType(chi.URLParam(r, "recordType"))
	records, err := h.client.ReadRecords(r.Context(), recordType, healthplatform.TimeRange{Start: start, End: end})
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, wire.ReadResponse{Records: records})
}

func (h *handler) insertRecords(w http.ResponseWriter, r *http.Request) {
	if healthplatform.RecordType(chi.URLParam(r, "recordType")) != healthplatform.RecordTypeBodyTemperature {
		h.writeError(w, healthplatform.ErrUnsupportedRecordType)
		return
	}

	var req wire.InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, wire.ErrorResponse{Error: wire.CodeInvalidRequest, Message: "invalid json"})
		return
	}

	ids, err := h.client.InsertRecords(r.Context(), req.Records)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, wire.InsertResponse{IDs: ids})
}

func (h *handler) deleteRecords(w http.ResponseWriter, r *http.Request) {
	var req wire.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Write(w, http.StatusBadRequest, wire.ErrorResponse{Error: wire.CodeInvalidRequest, Message: "invalid json"})
		return
	}

	recordType := healthplatform.RecordType(chi.URLParam(r, "recordType"))
	if err := h.client.DeleteRecords(r.Context(), recordType, req.IDs); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func adminHandler(fn func(ctx context.Context, perms ...string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req wire.PermissionsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.Write(w, http.StatusBadRequest, wire.ErrorResponse{Error: wire.CodeInvalidRequest, Message: "invalid json"})
			return
		}
		if err := fn(r.Context(), req.Permissions...); err != nil {
			httpjson.Write(w, http.StatusInternalServerError, wire.ErrorResponse{Error: wire.CodeInternal, Message: err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, wire.CodeInternal
	switch {
	case errors.Is(err, healthplatform.ErrPermissionNotGranted):
		status, code = http.StatusForbidden, wire.CodePermissionNotGranted
	case errors.Is(err, healthplatform.ErrRecordNotFound):
		status, code = http.StatusNotFound, wire.CodeRecordNotFound
	case errors.Is(err, healthplatform.ErrUnsupportedRecordType):
		status, code = http.StatusUnprocessableEntity, wire.CodeUnsupportedType
	case errors.Is(err, healthplatform.ErrUnavailable):
		status, code = http.StatusServiceUnavailable, wire.CodeUnavailable
	default:
		h.log.Error("platform call failed", map[string]any{"err": err})
	}
	httpjson.Write(w, status, wire.ErrorResponse{Error: code, Message: err.Error()})
}

