package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"admin-dashboard/internal/assets"
	"admin-dashboard/internal/dashboard"
	"admin-dashboard/internal/handlers"
)

type Deps struct {
	Registry    *dashboard.Registry
	SessionTTL  time.Duration
	Uploader    assets.Uploader
	AuthLimiter *handlers.RateLimiter
	Gatherer    prometheus.Gatherer
}

func RegisterRoutes(router *gin.Engine, deps Deps) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Registry.Len()})
	})
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	sh := &handlers.SessionHandler{}
	ph := &handlers.ProductHandler{}
	oh := &handlers.OrderHandler{}
	uh := &handlers.UploadHandler{Uploader: deps.Uploader}

	limit := func(c *gin.Context) { c.Next() }
	if deps.AuthLimiter != nil {
		limit = deps.AuthLimiter.Limit()
	}

	api := router.Group("/api", handlers.Sessions(deps.Registry, deps.SessionTTL))
	{
		auth := api.Group("/session")
		auth.GET("", sh.State)
		auth.GET("/check", sh.CheckAuth)
		auth.POST("/signup", limit, sh.Signup)
		auth.POST("/verify-email", limit, sh.VerifyEmail)
		auth.POST("/login", limit, sh.Login)
		auth.POST("/logout", sh.Logout)
		auth.POST("/forgot-password", limit, sh.ForgotPassword)
		auth.POST("/reset-password/:token", limit, sh.ResetPassword)

		admin := api.Group("", handlers.RequireAdmin())
		admin.GET("/products", ph.ListProducts)
		admin.POST("/products", ph.CreateProduct)
		admin.GET("/products/:id", ph.GetProduct)
		admin.PATCH("/products/:id", ph.UpdateProduct)
		admin.DELETE("/products/:id", ph.DeleteProduct)

		admin.GET("/orders", oh.ListOrders)
		admin.PATCH("/orders/:id/payment-status", oh.UpdatePaymentStatus)
		admin.PATCH("/orders/:id/order-status", oh.UpdateOrderStatus)

		admin.POST("/uploads", uh.Upload)
	}
}
