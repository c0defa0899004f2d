package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User representa la cuenta del administrador autenticado
type User struct {
	ID                         primitive.ObjectID `json:"_id"`
	Name                       string             `json:"name"`
	Email                      string             `json:"email"`
	Role                       string             `json:"role"`
	IsVerified                 bool               `json:"isVerified"`
	VerificationToken          string             `json:"verificationToken,omitempty"`
	VerificationTokenExpiresAt *time.Time         `json:"verificationTokenExpiresAt,omitempty"`
	LastLogin                  *time.Time         `json:"lastLogin,omitempty"`
	CreatedAt                  time.Time          `json:"createdAt"`
	UpdatedAt                  time.Time          `json:"updatedAt"`
}

// RoleAdmin es el rol que solicita todo registro desde el dashboard
const RoleAdmin = "admin"
