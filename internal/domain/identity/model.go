package identity

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrSeparatorInField = errors.New("identity field contains separator")
)

// Identity describe quién tomó la lectura.
// No tiene ciclo de vida propio: viaja dentro del client record id de la plataforma.
type Identity struct {
	DisplayName string
	Role        Role
	SubjectID   string
}

// Validate es el chequeo estricto para input de usuario.
// Encode no falla nunca (sanitiza), así que quien quiera rechazar debe llamar esto antes.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.DisplayName) == "" {
		return ErrInvalidInput
	}
	if _, ok := ParseRole(string(i.Role)); !ok {
		return ErrInvalidInput
	}
	for _, f := range []string{i.DisplayName, string(i.Role), i.SubjectID} {
		if strings.Contains(f, Separator) {
			return ErrSeparatorInField
		}
	}
	return nil
}
