// Package httpjson reúne los helpers JSON que comparten los handlers.
package httpjson

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Códigos estables del campo "error". El texto para humanos va en "message".
const (
	CodeInvalidJSON     = "invalid_json"
	CodeInvalidRequest  = "invalid_request"
	CodeInvalidRange    = "invalid_range"
	CodeInvalidUnit     = "invalid_unit"
	CodeInvalidIdentity = "invalid_identity"
	CodeUnknownRole     = "unknown_role"
)

// ErrorResponse es el cuerpo de error de la API: {"error": código, "message": texto}.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, code, message string) {
	Write(w, status, ErrorResponse{Error: code, Message: message})
}

// Decode lee el body JSON rechazando campos desconocidos.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ParseTime acepta RFC3339 o segundos unix.
func ParseTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), true
	}
	return time.Time{}, false
}
