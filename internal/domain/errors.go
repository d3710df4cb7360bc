package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
)

// Errores de validación de eventos de stock. Solo los devuelve el validador,
// en el momento de registrar el evento; la reconstrucción del ledger nunca falla.
var (
	ErrMissingItem         = errors.New("item_id requerido")
	ErrUnknownEventType    = errors.New("tipo de evento desconocido")
	ErrInvalidQuantity     = errors.New("la cantidad debe ser un entero mayor que cero")
	ErrMissingFromLocation = errors.New("ubicación de origen requerida")
	ErrMissingToLocation   = errors.New("ubicación de destino requerida")
	ErrSameFromAndTo       = errors.New("origen y destino no pueden ser la misma ubicación")
)

// ValidationError asocia un error de validación con el campo que lo provocó.
// errors.Is(err, ErrMissingToLocation) sigue funcionando a través de Unwrap.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidationCode devuelve el código estable (MISSING_ITEM, SAME_FROM_AND_TO, ...)
// para un error de validación, o "" si err no es de validación.
func ValidationCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingItem):
		return "MISSING_ITEM"
	case errors.Is(err, ErrUnknownEventType):
		return "UNKNOWN_EVENT_TYPE"
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrMissingFromLocation):
		return "MISSING_FROM_LOCATION"
	case errors.Is(err, ErrMissingToLocation):
		return "MISSING_TO_LOCATION"
	case errors.Is(err, ErrSameFromAndTo):
		return "SAME_FROM_AND_TO"
	}
	return ""
}
