package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/models"
)

type OrderHandler struct{}

type paymentStatusRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus" binding:"required,oneof=pending completed failed"`
}

type orderStatusRequest struct {
	OrderStatus models.OrderStatus `json:"orderStatus" binding:"required,oneof=processing shipped delivered"`
}

// GET /api/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	s := adminBundle(c).Orders
	err := s.GetOrders(c.Request.Context())
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// PATCH /api/orders/:id/payment-status
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s := adminBundle(c).Orders
	err := s.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// PATCH /api/orders/:id/order-status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	s := adminBundle(c).Orders
	err := s.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.OrderStatus)
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}
