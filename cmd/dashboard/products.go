package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func productsCmd() *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect and manage the product catalog",
	}
	addCredentialFlags(cmd, &creds)

	list := &cobra.Command{
		Use:   "list",
		Short: "List all products",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openSession(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Catalog.GetProducts(cmd.Context()); err != nil {
				return err
			}
			st := b.Catalog.State()
			if err := recorded(st.Error); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tPOPULAR")
			for _, p := range st.Products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%t\n", p.ID.Hex(), p.Name, p.Category, p.Price, p.IsPopular)
			}
			return w.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openSession(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Catalog.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return err
			}
			if err := recorded(b.Catalog.State().Error); err != nil {
				return err
			}
			fmt.Println("✅ Product deleted:", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, del)
	return cmd
}
