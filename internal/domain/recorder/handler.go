package recorder

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"temperature-history/internal/domain/identity"
	"temperature-history/internal/domain/temperature"
	"temperature-history/internal/middleware"
	"temperature-history/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func RegisterRoutes(r chi.Router, rec *Recorder) {
	r.Route("/recorder", func(rr chi.Router) {
		rr.Get("/state", stateHandler(rec))
		rr.Post("/permissions/check", checkPermissionsHandler(rec))
		rr.Post("/validate", validateHandler(rec))
		rr.Post("/recordings", recordHandler(rec))
		rr.Put("/identity", setIdentityHandler(rec))
		rr.Get("/identity", getIdentityHandler(rec))
		rr.Get("/recent", recentHandler(rec))
		rr.Post("/recent/refresh", refreshRecentHandler(rec))
	})
}

// validateRequest es el texto crudo ingresado por el usuario.
type validateRequest struct {
	Input string `json:"input"`
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// recordRequest es una lectura a registrar. unit es opcional (C por defecto).
type recordRequest struct {
	Value *float64 `json:"value" validate:"required"`
	Unit  string   `json:"unit" validate:"omitempty,oneof=C F c f"`
}

// identityRequest es la identidad de contexto usada por defecto al registrar.
type identityRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	Role        string `json:"role"`
	SubjectID   string `json:"subject_id"`
}

// refreshRequest es la ventana a releer; ambos extremos en RFC3339.
type refreshRequest struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required,gtefield=From"`
}

type subjectResponse struct {
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role"`
	RoleDisplay string        `json:"role_display"`
	SubjectID   string        `json:"subject_id,omitempty"`
}

// stateResponse es el estado publicado por el recorder.
type stateResponse struct {
	Kind         Kind             `json:"kind"`
	RecordID     string           `json:"record_id,omitempty"`
	ValueCelsius float64          `json:"value_celsius,omitempty"`
	TakenAt      *time.Time       `json:"taken_at,omitempty"`
	Subject      *subjectResponse `json:"subject,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	Message      string           `json:"message,omitempty"`
}

type measurementResponse struct {
	RecordID        string           `json:"record_id"`
	ValueCelsius    float64          `json:"value_celsius"`
	ValueFahrenheit float64          `json:"value_fahrenheit"`
	TakenAt         time.Time        `json:"taken_at"`
	ZoneOffset      int              `json:"zone_offset_seconds"`
	Subject         *subjectResponse `json:"subject,omitempty"`
}

// recentResponse es la lista de lecturas recientes.
type recentResponse struct {
	Items     []measurementResponse `json:"items"`
	From      *time.Time            `json:"from,omitempty"`
	To        *time.Time            `json:"to,omitempty"`
	Refreshed *time.Time            `json:"refreshed_at,omitempty"`
	Reason    string                `json:"reason,omitempty"`
}

// stateHandler godoc
// @Summary Estado del recorder
// @Tags recorder
// @Produce json
// @Success 200 {object} stateResponse
// @Router /recorder/state [get]
func stateHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, toStateResponse(rec.State().Get()))
	}
}

// checkPermissionsHandler godoc
// @Summary Chequear permisos
// @Description Publica Checking y luego permission_granted / permission_denied. Si la consulta falla el estado queda en failed.
// @Tags recorder
// @Produce json
// @Success 200 {object} stateResponse
// @Router /recorder/permissions/check [post]
func checkPermissionsHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := <-rec.CheckPermissions()
		status := http.StatusOK
		if res.Superseded {
			status = http.StatusConflict
		}
		httpjson.Write(w, status, toStateResponse(res.Value))
	}
}

// validateHandler godoc
// @Summary Validar input
// @Description Recorta, parsea y chequea el rango plausible (20°C a 45°C). Nunca falla.
// @Tags recorder
// @Accept json
// @Produce json
// @Param payload body validateRequest true "texto ingresado"
// @Success 200 {object} validateResponse
// @Failure 400 {object} httpjson.ErrorResponse "invalid json"
// @Router /recorder/validate [post]
func validateHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidJSON, "invalid json")
			return
		}
		httpjson.Write(w, http.StatusOK, validateResponse{Valid: rec.ValidateInput(req.Input)})
	}
}

// recordHandler godoc
// @Summary Registrar temperatura
// @Description Registra una lectura con el instante actual. La identidad sale de X-Subject (o X-Subject-Name/Role/ID) y, si no viene, de la identidad de contexto.
// @Tags recorder
// @Accept json
// @Produce json
// @Param X-Subject header string false "identidad codificada nombre|ROL|id"
// @Param X-Subject-Name header string false "nombre a mostrar"
// @Param X-Subject-Role header string false "PATIENT, DOCTOR, NURSE, CAREGIVER, SELF u OTHER"
// @Param X-Subject-ID header string false "id del sujeto"
// @Param payload body recordRequest true "valor y unidad"
// @Success 201 {object} stateResponse
// @Failure 400 {object} stateResponse "fuera de rango / input inválido"
// @Failure 403 {object} stateResponse "permisos faltantes"
// @Failure 409 {object} stateResponse "reemplazada por una llamada más nueva"
// @Failure 502 {object} stateResponse "la plataforma rechazó la operación"
// @Failure 503 {object} stateResponse "plataforma no disponible"
// @Router /recorder/recordings [post]
func recordHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidJSON, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidRequest, err.Error())
			return
		}

		unit, ok := temperature.ParseUnit(req.Unit)
		if !ok {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidUnit, "unit must be C or F")
			return
		}
		celsius := temperature.ToCelsius(*req.Value, unit)

		var done <-chan Outcome
		if subject, ok := middleware.GetSubject(r.Context()); ok {
			if err := subject.Validate(); err != nil {
				httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidIdentity, err.Error())
				return
			}
			done = rec.RecordAs(celsius, subject)
		} else {
			done = rec.Record(celsius)
		}
		res := <-done

		httpjson.Write(w, recordStatus(res), toStateResponse(res.Value))
	}
}

// setIdentityHandler godoc
// @Summary Fijar identidad de contexto
// @Description Identidad usada por defecto en los registros sin headers de sujeto.
// @Tags recorder
// @Accept json
// @Produce json
// @Param payload body identityRequest true "identidad"
// @Success 200 {object} subjectResponse
// @Failure 400 {object} httpjson.ErrorResponse "identidad inválida"
// @Router /recorder/identity [put]
func setIdentityHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req identityRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidJSON, "invalid json")
			return
		}
		if err := validate.Struct(req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidIdentity, err.Error())
			return
		}

		role := identity.RoleSelf
		if strings.TrimSpace(req.Role) != "" {
			parsed, ok := identity.ParseRole(req.Role)
			if !ok {
				httpjson.Error(w, http.StatusBadRequest, httpjson.CodeUnknownRole, "unknown role")
				return
			}
			role = parsed
		}
		id := identity.Identity{
			DisplayName: strings.TrimSpace(req.DisplayName),
			Role:        role,
			SubjectID:   strings.TrimSpace(req.SubjectID),
		}
		if err := id.Validate(); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidIdentity, err.Error())
			return
		}

		rec.SetIdentity(&id)
		httpjson.Write(w, http.StatusOK, toSubjectResponse(&id))
	}
}

// getIdentityHandler godoc
// @Summary Identidad de contexto
// @Tags recorder
// @Produce json
// @Success 200 {object} subjectResponse
// @Success 204 "sin identidad"
// @Router /recorder/identity [get]
func getIdentityHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := rec.Identity()
		if id == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httpjson.Write(w, http.StatusOK, toSubjectResponse(id))
	}
}

// recentHandler godoc
// @Summary Lecturas recientes
// @Tags recorder
// @Produce json
// @Success 200 {object} recentResponse
// @Router /recorder/recent [get]
func recentHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, toRecentResponse(rec.Recent().Get()))
	}
}

// refreshRecentHandler godoc
// @Summary Releer lecturas recientes
// @Description Relee la ventana [from, to]. Sin body usa la ventana configurada hasta ahora.
// @Tags recorder
// @Accept json
// @Produce json
// @Param payload body refreshRequest false "ventana RFC3339"
// @Success 200 {object} recentResponse
// @Failure 400 {object} httpjson.ErrorResponse "ventana inválida"
// @Router /recorder/recent/refresh [post]
func refreshRecentHandler(rec *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := rec.now()
		req := refreshRequest{From: now.Add(-rec.RecentWindow()), To: now}
		if r.ContentLength != 0 {
			if err := httpjson.Decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
				httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidJSON, "invalid json")
				return
			}
		}
		if err := validate.Struct(req); err != nil {
			httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInvalidRange, err.Error())
			return
		}

		res := <-rec.RefreshRecent(req.From, req.To)
		status := http.StatusOK
		if res.Superseded {
			status = http.StatusConflict
		}
		httpjson.Write(w, status, toRecentResponse(res.Value))
	}
}

// recordStatus: Recorded es 201 aunque otra llamada haya publicado después (el registro existe);
// 409 sólo si esta llamada fue reemplazada sin llegar a registrar.
func recordStatus(res Outcome) int {
	switch {
	case res.Value.Kind == KindRecorded:
		return http.StatusCreated
	case res.Superseded:
		return http.StatusConflict
	default:
		return temperature.HTTPStatus(res.Value.Err)
	}
}

func toStateResponse(s State) stateResponse {
	out := stateResponse{
		Kind:     s.Kind,
		RecordID: s.RecordID,
		Reason:   s.Reason,
		Message:  s.Message,
	}
	if s.Kind == KindRecorded {
		out.ValueCelsius = s.ValueCelsius
		out.Subject = toSubjectResponse(s.Subject)
		if !s.TakenAt.IsZero() {
			t := s.TakenAt
			out.TakenAt = &t
		}
	}
	return out
}

func toSubjectResponse(id *identity.Identity) *subjectResponse {
	if id == nil {
		return nil
	}
	return &subjectResponse{
		DisplayName: id.DisplayName,
		Role:        id.Role,
		RoleDisplay: id.Role.DisplayName(),
		SubjectID:   id.SubjectID,
	}
}

func toRecentResponse(l RecentList) recentResponse {
	out := recentResponse{
		Items:  make([]measurementResponse, 0, len(l.Items)),
		Reason: l.Reason,
	}
	for _, m := range l.Items {
		out.Items = append(out.Items, measurementResponse{
			RecordID:        m.RecordID,
			ValueCelsius:    m.ValueCelsius,
			ValueFahrenheit: temperature.CelsiusToFahrenheit(m.ValueCelsius),
			TakenAt:         m.TakenAt,
			ZoneOffset:      m.ZoneOffset,
			Subject:         toSubjectResponse(m.Subject),
		})
	}
	if !l.From.IsZero() {
		from, to := l.From, l.To
		out.From, out.To = &from, &to
	}
	if !l.Refreshed.IsZero() {
		ref := l.Refreshed
		out.Refreshed = &ref
	}
	return out
}
