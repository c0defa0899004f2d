package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Scope es el ámbito de vida de un store. Close cancela todas las llamadas en
// curso. Las acciones de escritura se reservan con Begin (una segunda llamada
// concurrente con la misma clave se rechaza) y las de lectura con Join
// (las llamadas concurrentes comparten el mismo resultado).
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	active map[string]struct{}
	group  singleflight.Group
}

func NewScope() *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scope{
		ctx:    ctx,
		cancel: cancel,
		active: make(map[string]struct{}),
	}
}

// Begin reserva key. El contexto devuelto se cancela con ctx o con el
// Scope; done libera la reserva y debe llamarse siempre.
func (s *Scope) Begin(ctx context.Context, key string) (context.Context, func(), error) {
	if s.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}

	s.mu.Lock()
	if _, busy := s.active[key]; busy {
		s.mu.Unlock()
		return nil, nil, ErrInFlight
	}
	s.active[key] = struct{}{}
	s.mu.Unlock()

	actx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	done := func() {
		stop()
		cancel()
		s.mu.Lock()
		delete(s.active, key)
		s.mu.Unlock()
	}
	return actx, done, nil
}

// Join ejecuta fn una sola vez para todas las llamadas concurrentes con la
// misma key. La llamada compartida sólo se cancela con el Scope; un llamador
// cuyo ctx termina antes recibe ctx.Err() sin interrumpir a los demás.
func (s *Scope) Join(ctx context.Context, key string, fn func(context.Context) error) error {
	if s.ctx.Err() != nil {
		return ErrClosed
	}

	ch := s.group.DoChan(key, func() (any, error) {
		actx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		stop := context.AfterFunc(s.ctx, cancel)
		defer func() {
			stop()
			cancel()
		}()
		return nil, fn(actx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh es como Join pero nunca se une a una llamada que ya estaba en curso:
// ésta puede haber empezado antes de un cambio que el llamador necesita ver.
// Las llamadas con key que lleguen después sí se unen a la nueva.
func (s *Scope) Refresh(ctx context.Context, key string, fn func(context.Context) error) error {
	s.group.Forget(key)
	return s.Join(ctx, key, fn)
}

// Close cancela las llamadas en curso; Begin y Join devuelven ErrClosed desde entonces.
func (s *Scope) Close() {
	s.cancel()
}

func (s *Scope) Closed() bool {
	return s.ctx.Err() != nil
}
