package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"admin-dashboard/internal/config"
	"admin-dashboard/internal/dashboard"
)

type credentials struct {
	email    string
	password string
}

// addCredentialFlags registra --email y --password, que por defecto salen de
// ADMIN_EMAIL y ADMIN_PASSWORD
func addCredentialFlags(cmd *cobra.Command, creds *credentials) {
	cmd.PersistentFlags().StringVar(&creds.email, "email", os.Getenv("ADMIN_EMAIL"), "Admin email (ADMIN_EMAIL)")
	cmd.PersistentFlags().StringVar(&creds.password, "password", os.Getenv("ADMIN_PASSWORD"), "Admin password (ADMIN_PASSWORD)")
}

// openSession inicia sesión con un bundle propio y exige un admin verificado.
func openSession(ctx context.Context, creds credentials) (*dashboard.Bundle, error) {
	if creds.email == "" || creds.password == "" {
		return nil, errors.New("email and password are required")
	}

	cfg := config.LoadConfig()
	b, err := dashboard.NewBundle("cli", dashboard.Options{
		APIURL:  cfg.APIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  newLogger(cfg),
	})
	if err != nil {
		return nil, err
	}

	if err := b.Session.Login(ctx, creds.email, creds.password); err != nil {
		b.Close()
		return nil, err
	}
	if !b.Session.State().IsVerifiedAdmin() {
		b.Close()
		return nil, errors.New("account is not a verified admin")
	}
	return b, nil
}

// recorded convierte el fallo guardado en el estado de un store en error
func recorded(msg string) error {
	if msg == "" {
		return nil
	}
	return fmt.Errorf("%s", msg)
}
