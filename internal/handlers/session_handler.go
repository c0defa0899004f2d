package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/store/session"
)

type SessionHandler struct{}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type verifyRequest struct {
	Code string `json:"code" binding:"required"`
}

type forgotRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// GET /api/session
func (h *SessionHandler) State(c *gin.Context) {
	b, ok := bundleFrom(c)
	if !ok {
		c.JSON(http.StatusOK, session.InitialState())
		return
	}
	c.JSON(http.StatusOK, b.Session.State())
}

// GET /api/session/check
// Sin bundle no hay cookie del backend que comprobar: se responde sin sesión.
func (h *SessionHandler) CheckAuth(c *gin.Context) {
	b, ok := bundleFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, StateResponse{Error: "no active session", State: session.State{}})
		return
	}
	s := b.Session
	err := s.CheckAuth(c.Request.Context())
	st := s.State()
	respond(c, http.StatusOK, err, st, "")
}

// POST /api/session/signup
func (h *SessionHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := openBundle(c)
	if err != nil {
		sessionUnavailable(c)
		return
	}
	s := b.Session
	err = s.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	respond(c, http.StatusCreated, err, s.State(), "")
}

// POST /api/session/verify-email
func (h *SessionHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := openBundle(c)
	if err != nil {
		sessionUnavailable(c)
		return
	}
	s := b.Session
	err = s.VerifyEmail(c.Request.Context(), req.Code)
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// POST /api/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := openBundle(c)
	if err != nil {
		sessionUnavailable(c)
		return
	}
	s := b.Session
	err = s.Login(c.Request.Context(), req.Email, req.Password)
	respond(c, http.StatusOK, err, s.State(), "")
}

// POST /api/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	b, ok := bundleFrom(c)
	if !ok {
		c.JSON(http.StatusOK, session.State{})
		return
	}
	s := b.Session
	err := s.Logout(c.Request.Context())
	respond(c, http.StatusOK, err, s.State(), "")
}

// POST /api/session/forgot-password
func (h *SessionHandler) ForgotPassword(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := openBundle(c)
	if err != nil {
		sessionUnavailable(c)
		return
	}
	s := b.Session
	err = s.ForgotPassword(c.Request.Context(), req.Email)
	st := s.State()
	respond(c, http.StatusOK, err, st, st.Error)
}

// POST /api/session/reset-password/:token
func (h *SessionHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := openBundle(c)
	if err != nil {
		sessionUnavailable(c)
		return
	}
	s := b.Session
	err = s.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	respond(c, http.StatusOK, err, s.State(), "")
}
