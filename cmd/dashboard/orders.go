package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"admin-dashboard/internal/models"
)

func ordersCmd() *cobra.Command {
	var creds credentials

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and update customer orders",
	}
	addCredentialFlags(cmd, &creds)

	list := &cobra.Command{
		Use:   "list",
		Short: "List all orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openSession(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Orders.GetOrders(cmd.Context()); err != nil {
				return err
			}
			st := b.Orders.State()
			if err := recorded(st.Error); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTOTAL\tPAYMENT\tMETHOD\tSTATUS")
			for _, o := range st.Orders {
				fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n", o.ID.Hex(), o.TotalAmount, o.PaymentStatus, o.PaymentMethod, o.OrderStatus)
			}
			return w.Flush()
		},
	}

	var payment, status string
	setStatus := &cobra.Command{
		Use:   "set-status <id>",
		Short: "Update the payment or fulfilment status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (payment == "") == (status == "") {
				return errors.New("exactly one of --payment or --status is required")
			}

			b, err := openSession(cmd.Context(), creds)
			if err != nil {
				return err
			}
			defer b.Close()

			if payment != "" {
				ps, err := models.ParsePaymentStatus(payment)
				if err != nil {
					return err
				}
				err = b.Orders.UpdatePaymentStatus(cmd.Context(), args[0], ps)
				if err != nil {
					return err
				}
			} else {
				next, err := models.ParseOrderStatus(status)
				if err != nil {
					return err
				}
				err = b.Orders.UpdateOrderStatus(cmd.Context(), args[0], next)
				if err != nil {
					return err
				}
			}
			if err := recorded(b.Orders.State().Error); err != nil {
				return err
			}
			fmt.Println("✅ Order updated:", args[0])
			return nil
		},
	}
	setStatus.Flags().StringVar(&payment, "payment", "", "New payment status (pending, completed, failed)")
	setStatus.Flags().StringVar(&status, "status", "", "New order status (processing, shipped, delivered)")

	cmd.AddCommand(list, setStatus)
	return cmd
}
