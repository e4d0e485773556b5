package temperature

import "temperature-history/internal/ports/healthplatform"

// PermissionSet es fijo: leer y escribir temperatura corporal.
// No hay manejo especial de grants parciales: o están los dos o no se opera.
type PermissionSet []string

func DefaultPermissions() PermissionSet {
	return PermissionSet{
		healthplatform.PermissionWriteBodyTemperature,
		healthplatform.PermissionReadBodyTemperature,
	}
}

// SatisfiedBy reporta si granted es superset del set.
func (ps PermissionSet) SatisfiedBy(granted []string) bool {
	for _, p := range ps {
		if !healthplatform.HasPermission(granted, p) {
			return false
		}
	}
	return true
}

// Missing lista los permisos que faltan (útil para logs y la API).
func (ps PermissionSet) Missing(granted []string) []string {
	out := make([]string, 0)
	for _, p := range ps {
		if !healthplatform.HasPermission(granted, p) {
			out = append(out, p)
		}
	}
	return out
}
