package api

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"admin-dashboard/internal/models"
)

type orderListEnvelope struct {
	Orders []*models.Order `json:"orders"`
}

func (c *Client) ListOrders(ctx context.Context) ([]*models.Order, error) {
	var env orderListEnvelope
	if err := c.do(ctx, "list_orders", http.MethodGet, "/orders", nil, &env); err != nil {
		return nil, err
	}
	if env.Orders == nil {
		env.Orders = []*models.Order{}
	}
	return env.Orders, nil
}

// UpdatePaymentStatus devuelve el pedido actualizado por el servidor.
func (c *Client) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) (*models.Order, error) {
	var env struct {
		Order *models.Order `json:"updatedPaymentStatus"`
	}
	body := map[string]models.PaymentStatus{"paymentStatus": status}
	if err := c.do(ctx, "update_payment_status", http.MethodPatch, "/update-payment-status/"+id.Hex(), body, &env); err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, missing("update_payment_status", "updatedPaymentStatus")
	}
	return env.Order, nil
}

// UpdateOrderStatus devuelve el pedido actualizado por el servidor.
func (c *Client) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	var env struct {
		Order *models.Order `json:"updatedOrderStatus"`
	}
	body := map[string]models.OrderStatus{"orderStatus": status}
	if err := c.do(ctx, "update_order_status", http.MethodPatch, "/update-order-status/"+id.Hex(), body, &env); err != nil {
		return nil, err
	}
	if env.Order == nil {
		return nil, missing("update_order_status", "updatedOrderStatus")
	}
	return env.Order, nil
}
