package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"temperature-history/internal/domain/identity"
)

func captureSubject(t *testing.T, headers map[string]string) (*identity.Identity, bool) {
	t.Helper()
	var got *identity.Identity
	var ok bool
	h := SubjectContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetSubject(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	return got, ok
}

func TestSubjectContext_EncodedHeader(t *testing.T) {
	got, ok := captureSubject(t, map[string]string{HeaderSubject: "Dr. Ruiz|DOCTOR|d-9"})
	if !ok || got.DisplayName != "Dr. Ruiz" || got.Role != identity.RoleDoctor || got.SubjectID != "d-9" {
		t.Fatalf("unexpected subject %#v ok=%v", got, ok)
	}
}

func TestSubjectContext_SplitHeaders(t *testing.T) {
	got, ok := captureSubject(t, map[string]string{
		HeaderSubjectName: "Ana",
		HeaderSubjectRole: "nurse",
	})
	if !ok || got.Role != identity.RoleNurse || got.SubjectID != "" {
		t.Fatalf("unexpected subject %#v", got)
	}

	got, _ = captureSubject(t, map[string]string{HeaderSubjectName: "Ana", HeaderSubjectRole: "pilot"})
	if got.Role != identity.RoleSelf {
		t.Fatalf("unknown role must default to SELF, got %s", got.Role)
	}
}

func TestSubjectContext_NoHeadersOrMalformed(t *testing.T) {
	if _, ok := captureSubject(t, nil); ok {
		t.Fatalf("expected no subject")
	}
	if _, ok := captureSubject(t, map[string]string{HeaderSubject: "only|two"}); ok {
		t.Fatalf("malformed encoded subject must be ignored")
	}
}
