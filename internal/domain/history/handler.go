package history

import (
	"net/http"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/temperature"
	"temperature-history/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// DefaultRange es la ventana de GET /history sin from/to.
const DefaultRange = 30 * 24 * time.Hour

var validate = validator.New()

func RegisterRoutes(r chi.Router, b *Browser) {
	r.Route("/history", func(hr chi.Router) {
		hr.Get("/", loadHistoryHandler(b))
		hr.Get("/state", stateHandler(b))
		hr.Delete("/{recordID}", deleteReadingHandler(b))
	})
}

type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

type subjectResponse struct {
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role"`
	RoleDisplay string        `json:"role_display"`
	SubjectID   string        `json:"subject_id,omitempty"`
}

// readingResponse es una lectura lista para mostrar.
type readingResponse struct {
	RecordID            string           `json:"record_id"`
	ValueCelsius        float64          `json:"value_celsius"`
	ValueFahrenheit     float64          `json:"value_fahrenheit"`
	FormattedCelsius    string           `json:"formatted_celsius"`
	FormattedFahrenheit string           `json:"formatted_fahrenheit"`
	TakenAt             time.Time        `json:"taken_at"`
	Date                string           `json:"date"`
	Time                string           `json:"time"`
	FormattedTimestamp  string           `json:"formatted_timestamp"`
	Subject             *subjectResponse `json:"subject,omitempty"`
}

// stateResponse es el estado publicado por el historial.
type stateResponse struct {
	Kind     Kind              `json:"kind"`
	Readings []readingResponse `json:"readings"`
	RecordID string            `json:"record_id,omitempty"`
	Reason   string            `json:"reason,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// loadHistoryHandler godoc
// @Summary Cargar historial
// @Description Carga las lecturas de [from, to] (por defecto los últimos 30 días), más nuevas primero.
// @Tags history
// @Produce json
// @Param from query string false "inicio RFC3339 o unix"
// @Param to query string false "fin RFC3339 o unix"
// @Success 200 {object} stateResponse
// @Failure 400 {object} httpjson.ErrorResponse "rango inválido"
// @Failure 403 {object} stateResponse "permisos faltantes"
// @Failure 503 {object} stateResponse "plataforma no disponible"
// @Router /history [get]
func loadHistoryHandler(b *Browser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, ok := parseRange(r, time.Now())
		if !ok {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidRange, "from/to must be RFC3339 or unix seconds")
			return
		}
		if err := validate.Struct(q); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidRange, err.Error())
			return
		}

		writeOutcome(w, <-b.LoadHistory(q.From, q.To))
	}
}

// stateHandler godoc
// @Summary Estado del historial
// @Tags history
// @Produce json
// @Success 200 {object} stateResponse
// @Router /history/state [get]
func stateHandler(b *Browser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, toStateResponse(b.State().Get()))
	}
}

// deleteReadingHandler godoc
// @Summary Borrar lectura
// @Description Borra el registro en la plataforma y, sólo si se confirma, lo quita de la lista.
// @Tags history
// @Produce json
// @Param recordID path string true "ID del registro"
// @Success 200 {object} stateResponse
// @Failure 400 {object} stateResponse "id vacío"
// @Failure 403 {object} stateResponse "permisos faltantes"
// @Failure 404 {object} stateResponse "registro inexistente"
// @Router /history/{recordID} [delete]
func deleteReadingHandler(b *Browser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeOutcome(w, <-b.DeleteReading(chi.URLParam(r, "recordID")))
	}
}

// writeOutcome responde con el resultado propio de la operación.
// Loaded siempre es 200 (la lectura o el borrado se completaron); 409 sólo si la
// llamada fue reemplazada sin completarse.
func writeOutcome(w http.ResponseWriter, res Outcome) {
	st := res.Value
	status := http.StatusOK
	switch {
	case st.Kind == KindLoaded:
	case res.Superseded:
		status = http.StatusConflict
	default:
		status = temperature.HTTPStatus(st.Err)
	}
	httpjson.Write(w, status, toStateResponse(st))
}

func parseRange(r *http.Request, now time.Time) (rangeQuery, bool) {
	q := rangeQuery{From: now.Add(-DefaultRange), To: now}
	if v := r.URL.Query().Get("from"); v != "" {
		t, ok := httpjson.ParseTime(v)
		if !ok {
			return q, false
		}
		q.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, ok := httpjson.ParseTime(v)
		if !ok {
			return q, false
		}
		q.To = t
	}
	return q, true
}

func toStateResponse(s State) stateResponse {
	out := stateResponse{
		Kind:     s.Kind,
		Readings: make([]readingResponse, 0, len(s.Readings)),
		RecordID: s.RecordID,
		Reason:   s.Reason,
		Message:  s.Message,
	}
	for _, d := range s.Readings {
		out.Readings = append(out.Readings, toReadingResponse(d))
	}
	return out
}

func toReadingResponse(d temperature.DisplayReading) readingResponse {
	out := readingResponse{
		RecordID:            d.RecordID,
		ValueCelsius:        d.ValueCelsius,
		ValueFahrenheit:     d.ValueFahrenheit,
		FormattedCelsius:    d.FormattedCelsius(),
		FormattedFahrenheit: d.FormattedFahrenheit(),
		TakenAt:             d.TakenAt,
		Date:                d.Date,
		Time:                d.Time,
		FormattedTimestamp:  d.FormattedTimestamp,
	}
	if d.Subject != nil {
		out.Subject = &subjectResponse{
			DisplayName: d.Subject.DisplayName,
			Role:        d.Subject.Role,
			RoleDisplay: d.Subject.Role.DisplayName(),
			SubjectID:   d.Subject.SubjectID,
		}
	}
	return out
}
