package temperature

import (
	"net/http"

	"temperature-history/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/platform", func(pr chi.Router) {
		pr.Get("/availability", availabilityHandler(m))
		pr.Get("/permissions", permissionsHandler(m))
	})
}

// availabilityResponse indica si la plataforma de salud está disponible.
type availabilityResponse struct {
	Available bool `json:"available"`
}

// permissionsResponse describe el estado de los permisos requeridos.
type permissionsResponse struct {
	Required []string `json:"required"`
	Missing  []string `json:"missing"`
	Granted  bool     `json:"granted"`
}

// availabilityHandler godoc
// @Summary Disponibilidad de la plataforma
// @Description Comprobación síncrona de la plataforma de salud. Nunca falla: cualquier problema se informa como no disponible.
// @Tags platform
// @Produce json
// @Success 200 {object} availabilityResponse
// @Router /platform/availability [get]
func availabilityHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpjson.Write(w, http.StatusOK, availabilityResponse{Available: m.IsPlatformAvailable()})
	}
}

// permissionsHandler godoc
// @Summary Permisos de temperatura corporal
// @Description Lista los permisos requeridos (lectura y escritura de temperatura corporal) y cuáles faltan.
// @Tags platform
// @Produce json
// @Success 200 {object} permissionsResponse
// @Failure 502 {object} httpjson.ErrorResponse "la consulta de permisos falló"
// @Router /platform/permissions [get]
func permissionsHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		missing, err := m.MissingPermissions(r.Context())
		if err != nil {
			httpjson.Error(w, HTTPStatus(err), ErrorCode(err), err.Error())
			return
		}
		httpjson.Write(w, http.StatusOK, permissionsResponse{
			Required: m.Permissions(),
			Missing:  missing,
			Granted:  len(missing) == 0,
		})
	}
}
