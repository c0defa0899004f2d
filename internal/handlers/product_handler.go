package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/models"
)

type ProductHandler struct{}

// GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	s := adminBundle(c).Catalog
	err := s.GetProducts(c.Request.Context())
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	s := adminBundle(c).Catalog
	err := s.AddProduct(c.Request.Context(), in)
	st := s.State()
	respond(c, http.StatusCreated, err, st, st.Error)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	s := adminBundle(c).Catalog
	err := s.GetSingleProduct(c.Request.Context(), c.Param("id"))
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// PATCH /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	s := adminBundle(c).Catalog
	err := s.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	s := adminBundle(c).Catalog
	err := s.DeleteProduct(c.Request.Context(), c.Param("id"))
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}
