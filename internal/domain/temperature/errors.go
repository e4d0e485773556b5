package temperature

import "errors"

var (
	// ErrPlatformUnavailable: plataforma no instalada/soportada. Terminal, no se reintenta.
	ErrPlatformUnavailable = errors.New("health platform unavailable")
	// ErrPermissionDenied: falta algún permiso del PermissionSet. El caller debe re-solicitarlos.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidInput y ErrOutOfRange son validación local; nunca llegan a la plataforma.
	ErrInvalidInput = errors.New("invalid input")
	ErrOutOfRange   = errors.New("out of range")
	// ErrPlatformOperationFailed envuelve cualquier falla de read/write/delete.
	ErrPlatformOperationFailed = errors.New("platform operation failed")
)

// OutOfRangeMessage es el texto para mostrar al usuario cuando el valor no es plausible.
const OutOfRangeMessage = "Please enter a valid temperature between 20°C and 45°C"
