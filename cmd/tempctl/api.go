package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"temperature-history/internal/platform/httpclient"
)

type api struct {
	http *httpclient.Client
}

func newAPI(base string, timeout time.Duration) (*api, error) {
	hc, err := httpclient.NewWithBaseURL(base, timeout)
	if err != nil {
		return nil, err
	}
	if hc.BaseURL == "" {
		return nil, fmt.Errorf("--api required")
	}
	return &api{http: hc}, nil
}

// Respuestas del servicio; sólo los campos que imprime el CLI.

type permissionsView struct {
	Required []string `json:"required"`
	Missing  []string `json:"missing"`
	Granted  bool     `json:"granted"`
}

type subjectView struct {
	DisplayName string `json:"display_name"`
	RoleDisplay string `json:"role_display"`
}

type stateView struct {
	Kind     string `json:"kind"`
	RecordID string `json:"record_id"`
	Message  string `json:"message"`
}

type readingView struct {
	RecordID           string       `json:"record_id"`
	FormattedCelsius   string       `json:"formatted_celsius"`
	FormattedTimestamp string       `json:"formatted_timestamp"`
	Subject            *subjectView `json:"subject"`
}

type historyView struct {
	Kind     string        `json:"kind"`
	Readings []readingView `json:"readings"`
	Message  string        `json:"message"`
}

type recordInput struct {
	Value     string
	Unit      string
	Name      string
	Role      string
	SubjectID string
}

func (a *api) runPermissions(ctx context.Context, out io.Writer) error {
	var avail struct {
		Available bool `json:"available"`
	}
	if err := a.http.DoJSON(ctx, http.MethodGet, "/platform/availability", nil, nil, &avail); err != nil {
		return err
	}
	fmt.Fprintf(out, "available: %t\n", avail.Available)
	if !avail.Available {
		return nil
	}

	var p permissionsView
	if err := a.http.DoJSON(ctx, http.MethodGet, "/platform/permissions", nil, nil, &p); err != nil {
		return err
	}
	fmt.Fprintf(out, "granted:   %t\n", p.Granted)
	if len(p.Missing) > 0 {
		fmt.Fprintf(out, "missing:   %s\n", strings.Join(p.Missing, ", "))
	}
	return nil
}

func (a *api) runValidate(ctx context.Context, text string, out io.Writer) error {
	var res struct {
		Valid bool `json:"valid"`
	}
	if err := a.http.DoJSON(ctx, http.MethodPost, "/recorder/validate", nil, map[string]string{"input": text}, &res); err != nil {
		return err
	}
	if res.Valid {
		fmt.Fprintln(out, "valid")
	} else {
		fmt.Fprintln(out, "invalid")
	}
	return nil
}

func (a *api) runRecord(ctx context.Context, in recordInput, out io.Writer) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(in.Value), 64)
	if err != nil {
		return fmt.Errorf("invalid value %q", in.Value)
	}

	headers := map[string]string{}
	if in.Name != "" {
		headers["X-Subject-Name"] = in.Name
		headers["X-Subject-Role"] = in.Role
		headers["X-Subject-ID"] = in.SubjectID
	}

	body := map[string]any{"value": v, "unit": strings.ToUpper(in.Unit)}
	var st stateView
	if err := a.http.DoJSON(ctx, http.MethodPost, "/recorder/recordings", headers, body, &st); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s)\n", st.Message, st.RecordID)
	return nil
}

func (a *api) runHistory(ctx context.Context, from, to time.Time, out io.Writer) error {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339Nano))
	q.Set("to", to.UTC().Format(time.RFC3339Nano))

	var h historyView
	if err := a.http.DoJSON(ctx, http.MethodGet, "/history?"+q.Encode(), nil, nil, &h); err != nil {
		return err
	}
	printReadings(out, h.Readings)
	return nil
}

func (a *api) runDelete(ctx context.Context, recordID string, out io.Writer) error {
	var h historyView
	if err := a.http.DoJSON(ctx, http.MethodDelete, "/history/"+url.PathEscape(recordID), nil, nil, &h); err != nil {
		return err
	}
	fmt.Fprintf(out, "deleted %s\n", recordID)
	printReadings(out, h.Readings)
	return nil
}

func printReadings(out io.Writer, readings []readingView) {
	if len(readings) == 0 {
		fmt.Fprintln(out, "no readings")
		return
	}
	for _, r := range readings {
		who := "-"
		if r.Subject != nil {
			who = fmt.Sprintf("%s (%s)", r.Subject.DisplayName, r.Subject.RoleDisplay)
		}
		fmt.Fprintf(out, "%s  %-7s  %-24s  %s\n", r.FormattedTimestamp, r.FormattedCelsius, who, r.RecordID)
	}
}
