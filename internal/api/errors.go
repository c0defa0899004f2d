package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingPayload indica una respuesta 2xx sin el campo esperado del sobre.
var ErrMissingPayload = errors.New("response envelope missing payload")

// Error es una respuesta no exitosa del backend
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
}

// ServerMessage devuelve el mensaje que envió el servidor, o "" si err no
// proviene de una respuesta del backend o ésta no traía mensaje.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// extractMessage busca "message" y luego "error" en el cuerpo. Cuerpos vacíos,
// no JSON o con campos que no son texto producen "".
func extractMessage(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	return ""
}

func missing(op, field string) error {
	return fmt.Errorf("%s: %w: %q", op, ErrMissingPayload, field)
}
