// Package store contiene la maquinaria común de los stores del dashboard:
// estado protegido, control de acciones en curso y errores de acción.
package store

import (
	"errors"
	"sync"

	"admin-dashboard/internal/api"
)

var (
	ErrInFlight = errors.New("action already in flight")
	ErrClosed   = errors.New("store closed")
)

// ActionError es el fallo remoto de una acción. Message es el mismo texto
// que queda registrado en el campo Error del store.
type ActionError struct {
	Action  string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return e.Action + ": " + e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// FailureMessage devuelve el mensaje del servidor o, si no lo hay, fallback.
func FailureMessage(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// Container guarda el estado S de un store. Tras Close las escrituras se
// descartan y Get sigue devolviendo el último valor.
type Container[S any] struct {
	mu     sync.RWMutex
	value  S
	closed bool
}

func NewContainer[S any](initial S) *Container[S] {
	return &Container[S]{value: initial}
}

// Get devuelve una copia superficial del estado.
func (c *Container[S]) Get() S {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Update aplica fn bajo el lock. Devuelve false si el contenedor está cerrado.
func (c *Container[S]) Update(fn func(*S)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	fn(&c.value)
	return true
}

func (c *Container[S]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
