package api

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"admin-dashboard/internal/models"
)

type productListEnvelope struct {
	Products []*models.Product `json:"Products"`
}

type productEnvelope struct {
	Product *models.Product `json:"product"`
}

// ListProducts obtiene el catálogo completo (sin paginación)
func (c *Client) ListProducts(ctx context.Context) ([]*models.Product, error) {
	var env productListEnvelope
	if err := c.do(ctx, "list_products", http.MethodGet, "/get-all-products", nil, &env); err != nil {
		return nil, err
	}
	if env.Products == nil {
		env.Products = []*models.Product{}
	}
	return env.Products, nil
}

// CreateProduct crea un producto; el servidor asigna el ID
func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) error {
	return c.do(ctx, "add_product", http.MethodPost, "/add-product", in, nil)
}

// GetProduct obtiene un producto por ID
func (c *Client) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var env productEnvelope
	if err := c.do(ctx, "get_product", http.MethodGet, "/get-product/"+id.Hex(), nil, &env); err != nil {
		return nil, err
	}
	if env.Product == nil {
		return nil, missing("get_product", "product")
	}
	return env.Product, nil
}

// UpdateProduct reemplaza todos los campos editables
func (c *Client) UpdateProduct(ctx context.Context, id primitive.ObjectID, in models.ProductInput) error {
	return c.do(ctx, "update_product", http.MethodPatch, "/update-product/"+id.Hex(), in, nil)
}

// DeleteProduct elimina un producto
func (c *Client) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return c.do(ctx, "delete_product", http.MethodDelete, "/delete-product/"+id.Hex(), nil, nil)
}
