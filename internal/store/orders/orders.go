// Package orders es el store de pedidos.
package orders

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/store"
)

//go:generate mockgen -destination=../../mocks/orders_api.go -package=mocks -mock_names=API=MockOrdersAPI admin-dashboard/internal/store/orders API

type API interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}

// State es la instantánea del store. Orders es nil hasta la primera carga.
type State struct {
	Orders    []*models.Order `json:"orders"`
	IsLoading bool            `json:"isLoading"`
	Error     string          `json:"error,omitempty"`
}

const (
	fallbackList          = "Failed to fetch orders"
	fallbackPaymentStatus = "Failed to update payment status"
	fallbackOrderStatus   = "Failed to update order status"
)

type Store struct {
	api    API
	state  *store.Container[State]
	scope  *store.Scope
	logger *slog.Logger
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
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

// GetOrders reemplaza la colección local respetando el orden del servidor.
func (s *Store) GetOrders(ctx context.Context) error {
	return s.scope.Join(ctx, "get_orders", func(ctx context.Context) error {
		s.start()
		orders, err := s.api.ListOrders(ctx)
		if err != nil {
			s.fail("get_orders", err, fallbackList)
			return nil
		}
		s.state.Update(func(st *State) {
			st.Orders = orders
			st.IsLoading = false
			st.Error = ""
		})
		s.logger.Debug("orders refreshed", "count", len(orders))
		return nil
	})
}

// UpdatePaymentStatus escribe cualquier estado de pago válido; el orden de
// las transiciones lo decide el servidor. No es optimista: la lista local
// sólo cambia con el pedido que devuelve el servidor.
func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}
	if _, err := models.ParsePaymentStatus(string(status)); err != nil {
		return err
	}

	return s.updateOrder(ctx, "update_payment_status", oid, fallbackPaymentStatus, func(ctx context.Context) (*models.Order, error) {
		return s.api.UpdatePaymentStatus(ctx, oid, status)
	})
}

// UpdateOrderStatus escribe cualquier estado de pedido válido.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	oid, err := models.ParseID(id)
	if err != nil {
		return err
	}
	if _, err := models.ParseOrderStatus(string(status)); err != nil {
		return err
	}

	return s.updateOrder(ctx, "update_order_status", oid, fallbackOrderStatus, func(ctx context.Context) (*models.Order, error) {
		return s.api.UpdateOrderStatus(ctx, oid, status)
	})
}

func (s *Store) updateOrder(ctx context.Context, action string, id primitive.ObjectID, fallback string, call func(context.Context) (*models.Order, error)) error {
	ctx, done, err := s.scope.Begin(ctx, action+":"+id.Hex())
	if err != nil {
		return err
	}
	defer done()

	s.start()
	updated, err := call(ctx)
	if err != nil {
		s.fail(action, err, fallback)
		return nil
	}

	s.state.Update(func(st *State) {
		st.Orders = replaced(st.Orders, updated)
		st.IsLoading = false
		st.Error = ""
	})
	s.logger.Debug("order updated", "action", action, "id", updated.ID.Hex())
	return nil
}

func (s *Store) start() {
	s.state.Update(func(st *State) {
		st.IsLoading = true
		st.Error = ""
	})
}

func (s *Store) fail(action string, err error, fallback string) {
	msg := store.FailureMessage(err, fallback)
	s.state.Update(func(st *State) {
		st.IsLoading = false
		st.Error = msg
	})
	s.logger.Warn("orders action failed", "action", action, "error", err)
}

// replaced devuelve una lista nueva donde sólo la entrada con el ID de
// updated apunta al nuevo registro.
func replaced(orders []*models.Order, updated *models.Order) []*models.Order {
	if orders == nil {
		return nil
	}
	out := make([]*models.Order, len(orders))
	for i, o := range orders {
		if o.ID == updated.ID {
			out[i] = updated
		} else {
			out[i] = o
		}
	}
	return out
}
