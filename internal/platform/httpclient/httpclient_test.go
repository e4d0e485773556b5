package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoJSON_DefaultHeadersAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, err := NewWithBaseURL(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.Headers = map[string]string{"X-Api-Key": "k"}

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "ping", nil, nil, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if !out.OK {
		t.Fatalf("expected decoded body")
	}

	err = c.DoJSON(context.Background(), http.MethodGet, "/ping", map[string]string{"X-Api-Key": "bad"}, nil, nil)
	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("request headers must override defaults, got %v", err)
	}
}

func TestDo_ErrorBodyIsParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"record_not_found","message":"no such record"}`))
	}))
	defer srv.Close()

	c := New(time.Second)
	status, err := c.Do(context.Background(), http.MethodDelete, srv.URL+"/x", nil, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	he, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("expected *HTTPError, got %T", err)
	}
	if he.Code != "record_not_found" || he.Message != "no such record" {
		t.Fatalf("unexpected parsed error %#v", he)
	}
	if he.Error() != "http 404: no such record" {
		t.Fatalf("unexpected message %q", he.Error())
	}
}

func TestNewWithBaseURL_Invalid(t *testing.T) {
	if _, err := NewWithBaseURL("not a url", time.Second); err == nil {
		t.Fatalf("expected error")
	}
	c := New(0)
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil); err == nil {
		t.Fatalf("relative path without BaseURL must fail")
	}
}
