package identity

import "strings"

// Separator separa los tres campos: "<displayName>|<role>|<subjectId>".
// El formato vive en la plataforma y debe quedar estable (registros viejos se decodifican con él).
const Separator = "|"

const sanitizedSeparator = "_"

// Encode arma el client record id. nil => "" (sin identidad).
// Campos con el separador se sanitizan (| -> _) para que siempre queden 3 segmentos.
func Encode(id *Identity) string {
	if id == nil {
		return ""
	}
	role := id.Role
	if _, ok := ParseRole(string(role)); !ok {
		role = RoleOther
	}
	return strings.Join([]string{
		sanitize(id.DisplayName),
		string(role),
		sanitize(id.SubjectID),
	}, Separator)
}

// Decode es total: input malformado => nil, nunca error.
// Rol desconocido => RoleOther (tolera drift de formato sin perder la identidad).
func Decode(raw string) *Identity {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, Separator)
	if len(parts) != 3 {
		return nil
	}
	role, ok := ParseRole(parts[1])
	if !ok {
		role = RoleOther
	}
	return &Identity{
		DisplayName: parts[0],
		Role:        role,
		SubjectID:   parts[2],
	}
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, Separator, sanitizedSeparator)
}
