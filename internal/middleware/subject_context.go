package middleware

import (
	"context"
	"net/http"
	"strings"

	"temperature-history/internal/domain/identity"
)

type ctxKey string

const subjectKey ctxKey = "subject"

const (
	HeaderSubject     = "X-Subject"
	HeaderSubjectName = "X-Subject-Name"
	HeaderSubjectRole = "X-Subject-Role"
	HeaderSubjectID   = "X-Subject-ID"
)

// SubjectContext:
// - X-Subject con la identidad codificada ("nombre|ROL|id") => Decode.
// - Si no, X-Subject-Name (+ Role/ID opcionales) arma la identidad.
// - Sin headers el request sigue sin identidad; los handlers deciden.
// No valida: un nombre con separador llega tal cual y el handler responde 400.
func SubjectContext() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := subjectFromHeaders(r.Header)
			if id == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), subjectKey, *id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(ctx context.Context) (*identity.Identity, bool) {
	v := ctx.Value(subjectKey)
	if v == nil {
		return nil, false
	}
	id, ok := v.(identity.Identity)
	if !ok {
		return nil, false
	}
	return &id, true
}

func subjectFromHeaders(h http.Header) *identity.Identity {
	if raw := strings.TrimSpace(h.Get(HeaderSubject)); raw != "" {
		return identity.Decode(raw)
	}

	name := strings.TrimSpace(h.Get(HeaderSubjectName))
	if name == "" {
		return nil
	}
	role, ok := identity.ParseRole(h.Get(HeaderSubjectRole))
	if !ok {
		role = identity.RoleSelf
	}
	return &identity.Identity{
		DisplayName: name,
		Role:        role,
		SubjectID:   strings.TrimSpace(h.Get(HeaderSubjectID)),
	}
}
