// Package healthplatform agrupa los adapters de la plataforma de salud.
// wire.go define el contrato HTTP que comparten gateway y remote.
package healthplatform

import "temperature-history/internal/ports/healthplatform"

const (
	PathAvailability = "/v1/availability"
	PathPermissions  = "/v1/permissions"
	PathRecords      = "/v1/records/{recordType}"
)

// Códigos de error del gateway (campo "error" del body).
const (
	CodePermissionNotGranted = "permission_not_granted"
	CodeRecordNotFound       = "record_not_found"
	CodeUnsupportedType      = "unsupported_record_type"
	CodeUnavailable          = "unavailable"
	CodeInvalidRequest       = "invalid_request"
	CodeInternal             = "internal"
	CodeUnauthorized         = "unauthorized"
)

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type PermissionsResponse struct {
	Granted []string `json:"granted"`
}

type PermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type InsertRequest struct {
	Records []healthplatform.Record `json:"records"`
}

type InsertResponse struct {
	IDs []string `json:"ids"`
}

type ReadResponse struct {
	Records []healthplatform.Record `json:"records"`
}

type DeleteRequest struct {
	IDs []string `json:"ids"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
