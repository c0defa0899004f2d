package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentGCash   PaymentMethod = "gcash"
	PaymentPayMaya PaymentMethod = "paymaya"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
)

// ParsePaymentStatus acepta cualquier valor del conjunto de estados de pago
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return p, nil
	}
	return "", fmt.Errorf("%w: payment status %q", ErrInvalidStatus, s)
}

// ParseOrderStatus acepta cualquier valor del conjunto de estados de pedido.
// No se valida el orden de las transiciones.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch o := OrderStatus(s); o {
	case OrderProcessing, OrderShipped, OrderDelivered:
		return o, nil
	}
	return "", fmt.Errorf("%w: order status %q", ErrInvalidStatus, s)
}

// OrderProduct es una copia del producto comprado, no una referencia al catálogo
type OrderProduct struct {
	Product  primitive.ObjectID `json:"product"`
	Name     string             `json:"name"`
	Price    float64            `json:"price"`
	Quantity int                `json:"quantity"`
	Image    string             `json:"image"`
}

type ShippingAddress struct {
	Fullname  string `json:"fullname"`
	Street    string `json:"street"`
	Baranggay string `json:"baranggay"`
	City      string `json:"city"`
	Province  string `json:"province"`
}

type Order struct {
	ID              primitive.ObjectID `json:"_id"`
	User            primitive.ObjectID `json:"user"`
	Products        []OrderProduct     `json:"products"`
	TotalAmount     float64            `json:"totalAmount"`
	PaymentStatus   PaymentStatus      `json:"paymentStatus"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	OrderStatus     OrderStatus        `json:"orderStatus"`
	CreatedAt       *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time         `json:"updatedAt,omitempty"`
}
