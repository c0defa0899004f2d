package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/api"
	"admin-dashboard/internal/dashboard"
	"admin-dashboard/internal/models"
	"admin-dashboard/internal/store"
)

const (
	bundleKey   = "bundle"
	registryKey = "bundle_registry"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// StateResponse acompaña un fallo con el estado del store afectado
type StateResponse struct {
	Error string `json:"error,omitempty"`
	State any    `json:"state"`
}

func bundleFrom(c *gin.Context) (*dashboard.Bundle, bool) {
	v, ok := c.Get(bundleKey)
	if !ok {
		return nil, false
	}
	return v.(*dashboard.Bundle), true
}

// adminBundle es el bundle de una ruta protegida; RequireAdmin garantiza que existe
func adminBundle(c *gin.Context) *dashboard.Bundle {
	return c.MustGet(bundleKey).(*dashboard.Bundle)
}

func sessionUnavailable(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not open session"})
}

// statusFor traduce el error de una acción a un código HTTP
func statusFor(err error) int {
	var apiErr *api.Error
	switch {
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrInFlight):
		return http.StatusConflict
	case errors.Is(err, store.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return http.StatusBadGateway
	}
}

// respond escribe el estado tras una acción. err es lo que devolvió la acción
// y stateErr el campo Error del store, que es donde quedan los fallos remotos
// de las acciones que no los devuelven.
func respond(c *gin.Context, okStatus int, err error, state any, stateErr string) {
	switch {
	case err != nil:
		msg := err.Error()
		var actionErr *store.ActionError
		if errors.As(err, &actionErr) {
			msg = actionErr.Message
		}
		c.JSON(statusFor(err), StateResponse{Error: msg, State: state})
	case stateErr != "":
		c.JSON(http.StatusBadGateway, StateResponse{Error: stateErr, State: state})
	default:
		c.JSON(okStatus, state)
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
