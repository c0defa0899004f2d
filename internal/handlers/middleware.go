package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"admin-dashboard/internal/cache"
	"admin-dashboard/internal/dashboard"
)

const sessionCookie = "dashboard_sid"

// Sessions resuelve el bundle de stores del navegador a partir de la cookie.
// No crea ninguno: eso lo hacen las acciones de autenticación con openBundle.
func Sessions(reg *dashboard.Registry, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(registryKey, sessionRegistry{reg: reg, ttl: ttl})

		sid, _ := c.Cookie(sessionCookie)
		if b, ok := reg.Get(sid); ok {
			setSessionCookie(c, b.ID, ttl)
			c.Set(bundleKey, b)
		}
		c.Next()
	}
}

type sessionRegistry struct {
	reg *dashboard.Registry
	ttl time.Duration
}

// openBundle devuelve el bundle de la petición o abre uno nuevo
func openBundle(c *gin.Context) (*dashboard.Bundle, error) {
	if b, ok := bundleFrom(c); ok {
		return b, nil
	}
	sr := c.MustGet(registryKey).(sessionRegistry)
	b, err := sr.reg.Create()
	if err != nil {
		return nil, err
	}
	setSessionCookie(c, b.ID, sr.ttl)
	c.Set(bundleKey, b)
	return b, nil
}

func setSessionCookie(c *gin.Context, sid string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sid, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
}

// RequireAdmin deja pasar sólo a administradores verificados. Si la sesión
// todavía no fue comprobada, la comprueba una vez contra el backend.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		b, ok := bundleFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "verified admin session required"})
			return
		}
		s := b.Session
		st := s.State()
		if st.IsCheckingAuth {
			_ = s.CheckAuth(c.Request.Context())
			st = s.State()
		}
		if !st.IsVerifiedAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "verified admin session required"})
			return
		}
		c.Next()
	}
}

// RateLimiter limita por IP las acciones de autenticación
type RateLimiter struct {
	mu       sync.Mutex
	visitors *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewRateLimiter permite perMinute peticiones por minuto y por IP
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		visitors: cache.New(10 * time.Minute),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors.Touch(ip); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors.Set(ip, limiter)
	return limiter
}

// Limit es el middleware
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests"})
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) Close() {
	rl.visitors.Close()
}
