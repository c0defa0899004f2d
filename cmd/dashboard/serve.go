package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"admin-dashboard/internal/assets"
	"admin-dashboard/internal/config"
	"admin-dashboard/internal/dashboard"
	"admin-dashboard/internal/handlers"
	"admin-dashboard/internal/metrics"
	"admin-dashboard/internal/routes"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if port != "" {
				cfg.Port = port
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides PORT)")

	return cmd
}

func serve(cfg *config.Config) error {
	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	bundles := dashboard.NewRegistry(cfg.SessionTTL, dashboard.Options{
		APIURL:  cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
		Metrics: m,
	})

	limiter := handlers.NewRateLimiter(cfg.LoginRatePerMinute)

	router := gin.Default()
	routes.RegisterRoutes(router, routes.Deps{
		Registry:    bundles,
		SessionTTL:  cfg.SessionTTL,
		Uploader:    assets.NewCloudinary(cfg.CloudinaryCloud, cfg.CloudinaryPreset),
		AuthLimiter: limiter,
		Gatherer:    reg,
	})

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	return run(server, sigCh, func() {
		log.Println("🛑 Closing dashboard sessions...")
		bundles.Close()
		limiter.Close()
	})
}

// run sirve hasta que llega una señal o falla el listener. cleanup se ejecuta
// siempre, después de Shutdown y antes de volver.
func run(server *http.Server, sigCh <-chan os.Signal, cleanup func()) error {
	defer cleanup()

	errCh := make(chan error, 1)
	go func() {
		log.Println("🚀 Server running on", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("✅ Server stopped cleanly")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return logger
}
