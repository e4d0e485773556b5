package identity

import "strings"

// Role es el tipo de persona que registró la medición.
// Se guarda en la plataforma por su nombre de constante (PATIENT, DOCTOR...).
type Role string

const (
	RolePatient   Role = "PATIENT"
	RoleDoctor    Role = "DOCTOR"
	RoleNurse     Role = "NURSE"
	RoleCaregiver Role = "CAREGIVER"
	RoleSelf      Role = "SELF"
	RoleOther     Role = "OTHER"
)

var roleDisplayNames = map[Role]string{
	RolePatient:   "Patient",
	RoleDoctor:    "Doctor",
	RoleNurse:     "Nurse",
	RoleCaregiver: "Caregiver",
	RoleSelf:      "Self",
	RoleOther:     "Other",
}

func (r Role) DisplayName() string {
	if n, ok := roleDisplayNames[r]; ok {
		return n
	}
	return roleDisplayNames[RoleOther]
}

// ParseRole acepta el nombre de constante (sin importar mayúsculas) o el display name.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	r := Role(strings.ToUpper(s))
	if _, ok := roleDisplayNames[r]; ok {
		return r, true
	}
	return "", false
}

// Roles lista los roles conocidos en orden estable.
func Roles() []Role {
	return []Role{RolePatient, RoleDoctor, RoleNurse, RoleCaregiver, RoleSelf, RoleOther}
}
