package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories son las categorías que ofrecen los formularios de producto
var Categories = []string{"table", "sofa", "lighting", "bed", "chair", "wardrobe"}

// Property es una fila clave/valor de la ficha técnica (el orden importa)
type Property struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Product representa un producto del catálogo tal como lo devuelve la API
type Product struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Properties  []Property         `json:"properties"`
	Category    string             `json:"category"`
	Price       float64            `json:"price"`
	ImageURLs   []string           `json:"imageUrl"`
	IsPopular   bool               `json:"isPopular"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// ProductInput contiene todos los campos editables de un producto.
// Se usa el mismo cuerpo para crear y para reemplazar todos los campos.
type ProductInput struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Properties  []Property `json:"properties"`
	Category    string     `json:"category" binding:"omitempty,oneof=table sofa lighting bed chair wardrobe"`
	Price       float64    `json:"price" binding:"gt=0"`
	ImageURLs   []string   `json:"imageUrl" binding:"required,min=1,dive,required"`
	IsPopular   bool       `json:"isPopular"`
}
