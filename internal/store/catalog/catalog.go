// Package catalog es el store de productos: la colección completa y el
// producto que se está editando.
package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/store"
)

//go:generate mockgen -destination=../../mocks/catalog_api.go -package=mocks -mock_names=API=MockCatalogAPI admin-dashboard/internal/store/catalog API

type API interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, in models.ProductInput) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
}

// State es la instantánea del store. Products es nil hasta la primera carga.
// Los productos se tratan como inmutables: cada cambio reemplaza la lista.
type State struct {
	Products  []*models.Product `json:"products"`
	Product   *models.Product   `json:"product"`
	IsLoading bool              `json:"isLoading"`
	Error     string            `json:"error,omitempty"`
}

// Reconcile decide qué pasa con la lista local tras crear o actualizar.
type Reconcile int

const (
	// ReconcileNone deja la lista como estaba hasta el próximo GetProducts.
	ReconcileNone Reconcile = iota
	// ReconcileRefetch vuelve a pedir la lista completa tras cada escritura exitosa.
	ReconcileRefetch
)

const (
	fallbackList   = "Error while fetching all the products"
	fallbackAdd    = "An error occured while trying to add product"
	fallbackGet    = "Error while fetching the product"
	fallbackUpdate = "Error while updating the product"
	fallbackDelete = "Error while deleting the product"
)

type Store struct {
	api       API
	state     *store.Container[State]
	scope     *store.Scope
	reconcile Reconcile
	logger    *slog.Logger

	// fetches numera las cargas de la lista; applied es la última que se
	// aplicó y sólo se toca dentro de state.Update.
	fetches atomic.Uint64
	applied uint64
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithReconcile(r Reconcile) Option {
	return func(s *Store) { s.reconcile = r }
}

func New(api API, opts ...Option) *Store {
	s := &Store{
		api:    api,
		state:  store.NewContainer(State{}),
		scope:  store.NewScope(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	return s.state.Get()
}

func (s *Store) Close() {
	s.scope.Close()
	s.state.Close()
}

// GetProducts reemplaza la colección local con la del servidor.
// Los fallos remotos quedan en Error; el valor devuelto sólo informa de
// rechazos (store cerrado, contexto cancelado).
func (s *Store) GetProducts(ctx context.Context) error {
	return s.scope.Join(ctx, "get_products", func(ctx context.Context) error {
		s.loadProducts(ctx, true)
		return nil
	})
}

// AddProduct crea un producto. Con ReconcileNone la lista local no cambia.
func (s *Store) AddProduct(ctx context.Context, in models.ProductInput) error {
	ctx, done, err := s.scope.Begin(ctx, "add_product")
	if err != nil {
		return err
	}
	defer done()

	s.start()
	if err := s.api.CreateProduct(ctx, in); err != nil {
		s.fail("add_product", err, fallbackAdd)
		return nil
	}
	s.succeed()
	s.logger.Debug("product added", "name", in.Name)
	return s.afterWrite(ctx)
}

// GetSingleProduct carga un producto en Product para el formulario de edición.
func (s *Store) GetSingleProduct(ctx context.Context, id string) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}

	return s.scope.Join(ctx, "get_product:"+oid.Hex(), func(ctx context.Context) error {
		s.start()
		product, err := s.api.GetProduct(ctx, oid)
		if err != nil {
			s.fail("get_product", err, fallbackGet)
			return nil
		}
		s.state.Update(func(st *State) {
			st.Product = product
			st.IsLoading = false
			st.Error = ""
		})
		return nil
	})
}

// UpdateProduct reemplaza todos los campos del producto id.
func (s *Store) UpdateProduct(ctx context.Context, id string, in models.ProductInput) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}

	ctx, done, err := s.scope.Begin(ctx, "update_product:"+oid.Hex())
	if err != nil {
		return err
	}
	defer done()

	s.start()
	if err := s.api.UpdateProduct(ctx, oid, in); err != nil {
		s.fail("update_product", err, fallbackUpdate)
		return nil
	}
	s.succeed()
	s.logger.Debug("product updated", "id", oid.Hex())
	return s.afterWrite(ctx)
}

// DeleteProduct borra en el servidor y, sólo tras la confirmación, quita el
// producto de la colección local conservando el orden del resto.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}

	ctx, done, err := s.scope.Begin(ctx, "delete_product:"+oid.Hex())
	if err != nil {
		return err
	}
	defer done()

	s.start()
	if err := s.api.DeleteProduct(ctx, oid); err != nil {
		s.fail("delete_product", err, fallbackDelete)
		return nil
	}

	s.state.Update(func(st *State) {
		st.Products = without(st.Products, oid)
		if st.Product != nil && st.Product.ID == oid {
			st.Product = nil
		}
		st.IsLoading = false
		st.Error = ""
	})
	s.logger.Debug("product deleted", "id", oid.Hex())
	return nil
}

// afterWrite vuelve a pedir la lista con una petición nueva, posterior a la
// escritura. Si esa petición falla la escritura sigue siendo un éxito: la
// lista queda como estaba y Error vacío.
func (s *Store) afterWrite(ctx context.Context) error {
	if s.reconcile != ReconcileRefetch {
		return nil
	}
	return s.scope.Refresh(ctx, "refetch_products", func(ctx context.Context) error {
		s.loadProducts(ctx, false)
		return nil
	})
}

// loadProducts pide la lista y la aplica salvo que una carga iniciada después
// ya se haya aplicado. Con record=false un fallo sólo se registra en el log.
func (s *Store) loadProducts(ctx context.Context, record bool) {
	seq := s.fetches.Add(1)
	s.start()
	products, err := s.api.ListProducts(ctx)

	s.state.Update(func(st *State) {
		if seq < s.applied {
			return
		}
		s.applied = seq
		st.IsLoading = false
		if err != nil {
			if record {
				st.Error = store.FailureMessage(err, fallbackList)
			}
			return
		}
		st.Products = products
		st.Error = ""
	})

	if err != nil {
		s.logger.Warn("catalog action failed", "action", "get_products", "refetch", !record, "error", err)
		return
	}
	s.logger.Debug("catalog refreshed", "count", len(products))
}

func (s *Store) start() {
	s.state.Update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
}

func (s *Store) succeed() {
	s.state.Update(func(st *State) {
		st.IsLoading = false
		st.Error = ""
	})
}

func (s *Store) fail(action string, err error, fallback string) {
	msg := store.FailureMessage(err, fallback)
	s.state.Update(func(st *State) {
		st.IsLoading = false
		st.Error = msg
	})
	s.logger.Warn("catalog action failed", "action", action, "error", err)
}

// without devuelve una lista nueva sin las entradas cuyo ID es id.
func without(products []*models.Product, id primitive.ObjectID) []*models.Product {
	if products == nil {
		return nil
	}
	kept := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return kept
}
