package core

// error_messages.go maps technical errors to user-facing messages.
//
// Error codes are grouped by category so users can quote them:
//
//	DATA000 - Dataset still loading
//	DATA001 - Dataset could not be fetched
//	DATA002 - Dataset has no data rows
//	DATA003 - Dataset has no row with both department and municipality
//	MAP001  - Map graphic could not be fetched
//	NET001  - Request timed out
//	NET002  - Request was cancelled
//	RATE001 - Too many requests
//	ERR000  - Anything else; check the server logs

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages are matched with errors.Is before any text pattern.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{
		target: ErrNotLoaded,
		msg: UserMessage{
			Message: "Cargando datos...",
			Action:  "Intente de nuevo en unos segundos",
			Code:    "DATA000",
		},
	},
	{
		target: ErrDataUnavailable,
		msg: UserMessage{
			Message: "No se encontró el archivo de datos",
			Action:  "Verifique la ubicación del archivo y recargue la página",
			Code:    "DATA001",
		},
	},
	{
		target: ErrEmptyDataset,
		msg: UserMessage{
			Message: "El archivo CSV está vacío",
			Action:  "El archivo debe tener una fila de encabezado y al menos una fila de datos",
			Code:    "DATA002",
		},
	},
	{
		target: ErrNoValidRecords,
		msg: UserMessage{
			Message: "No se encontraron datos válidos",
			Action:  "Cada fila necesita departamento y municipio",
			Code:    "DATA003",
		},
	},
	{
		target: ErrMapResourceUnavailable,
		msg: UserMessage{
			Message: "No se pudo cargar el mapa",
			Action:  "La tabla sigue disponible; verifique la ubicación del mapa",
			Code:    "MAP001",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively with strings.Contains.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "La solicitud tardó demasiado",
			Action:  "Intente de nuevo en unos momentos",
			Code:    "NET001",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "La solicitud tardó demasiado",
			Action:  "Intente de nuevo en unos momentos",
			Code:    "NET001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "La solicitud fue cancelada",
			Action:  "Intente de nuevo",
			Code:    "NET002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Demasiadas solicitudes",
			Action:  "Espere un momento antes de intentar de nuevo",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Ocurrió un error inesperado",
	Action:  "Intente de nuevo o contacte a soporte",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Known sentinels win over text patterns; unmatched errors get ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something other than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
