package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Admin dashboard for the e-commerce backend",
		Long: `dashboard expone los stores de sesión, catálogo y pedidos del panel de
administración, ya sea como servidor HTTP para el frontend o como comandos
sueltos contra el backend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		productsCmd(),
		ordersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s\n", err)
		os.Exit(1)
	}
}
