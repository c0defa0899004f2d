// Package dashboard arma los stores de cada sesión de navegador. Cada
// administrador obtiene su propio transporte (cookie jar) y su propio juego
// de stores, que se cierran cuando la sesión expira o se elimina.
package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/cache"
	"admin-dashboard/internal/metrics"
	"admin-dashboard/internal/store/catalog"
	"admin-dashboard/internal/store/orders"
	"admin-dashboard/internal/store/session"
)

type Options struct {
	APIURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Bundle es el juego de stores de una sesión de navegador
type Bundle struct {
	ID      string
	Session *session.Store
	Catalog *catalog.Store
	Orders  *orders.Store
}

// NewBundle crea los tres stores sobre un transporte compartido.
func NewBundle(id string, opts Options) (*Bundle, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("sid", shortID(id))

	clientOpts := []api.Option{
		api.WithTimeout(opts.Timeout),
		api.WithLogger(logger),
		api.WithMetrics(opts.Metrics),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, api.WithHTTPClient(opts.HTTPClient))
	}
	client, err := api.New(opts.APIURL, clientOpts...)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		ID:      id,
		Session: session.New(client, session.WithLogger(logger)),
		Catalog: catalog.New(client, catalog.WithLogger(logger), catalog.WithReconcile(catalog.ReconcileRefetch)),
		Orders:  orders.New(client, orders.WithLogger(logger)),
	}, nil
}

// Close cancela todo lo que siga en curso en los tres stores
func (b *Bundle) Close() {
	b.Session.Close()
	b.Catalog.Close()
	b.Orders.Close()
}

// Registry guarda los bundles vivos con expiración deslizante
type Registry struct {
	bundles *cache.Cache
	opts    Options
}

func NewRegistry(ttl time.Duration, opts Options) *Registry {
	r := &Registry{opts: opts}
	r.bundles = cache.New(ttl, cache.WithEvictHook(func(_ string, value interface{}) {
		if b, ok := value.(*Bundle); ok {
			b.Close()
		}
		if opts.Metrics != nil {
			opts.Metrics.ActiveBundles.Dec()
		}
	}))
	return r
}

// Get devuelve el bundle de id y renueva su expiración
func (r *Registry) Get(id string) (*Bundle, bool) {
	if id == "" {
		return nil, false
	}
	value, ok := r.bundles.Touch(id)
	if !ok {
		return nil, false
	}
	return value.(*Bundle), true
}

// Create abre una sesión nueva con un ID aleatorio
func (r *Registry) Create() (*Bundle, error) {
	b, err := NewBundle(uuid.NewString(), r.opts)
	if err != nil {
		return nil, err
	}
	r.bundles.Set(b.ID, b)
	if r.opts.Metrics != nil {
		r.opts.Metrics.ActiveBundles.Inc()
	}
	return b, nil
}

// Remove cierra y olvida la sesión id
func (r *Registry) Remove(id string) {
	r.bundles.Delete(id)
}

func (r *Registry) Len() int {
	return r.bundles.Size()
}

// Close cierra todas las sesiones
func (r *Registry) Close() {
	r.bundles.Close()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
