package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
)

// CheckoutOptions holds flags for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Address string
	City    string
	ZipCode string
	Country string
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Place an order for every cart line and ship it to the given address.
On success the cart is emptied and the confirmation shows once on the
home page.

Example:
  storefront checkout --address "12 Lane" --city Pune --zip 411001 --country India`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				page := a.Views.Checkout()
				res := page.Submit(ctx, form.Shipping{
					Address: opts.Address,
					City:    opts.City,
					ZipCode: opts.ZipCode,
					Country: opts.Country,
				})
				return out.Result(res, page.Confirmation)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Address, "address", "", "street address")
	cmd.Flags().StringVar(&opts.City, "city", "", "city")
	cmd.Flags().StringVar(&opts.ZipCode, "zip", "", "zip or postal code")
	cmd.Flags().StringVar(&opts.Country, "country", "", "country")
	return cmd
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders, newest first",
		Long: `List your orders, newest first. "orders show <id>" prints one order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				orders, err := a.Checkout.Orders(ctx)
				if err != nil {
					return orderError(out, err)
				}
				if out.JSON() {
					return out.Success(orders)
				}
				if len(orders) == 0 {
					fmt.Fprintln(out.Writer, "No orders yet")
					return nil
				}
				for _, o := range orders {
					fmt.Fprintf(out.Writer, "#%-5d %-19s %-10s %12s\n",
						o.ID, formatCreated(o), o.Status, a.Money.Amount(o.Total))
				}
				return nil
			})
		},
	}

	cmd.AddCommand(newOrderShowCommand(rootOpts))
	return cmd
}

func newOrderShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <order-id>",
		Short:         "Show one order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("order", args[0])
			if err != nil {
				return err
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				o, err := a.Checkout.Order(ctx, id)
				if err != nil {
					return orderError(out, err)
				}
				if out.JSON() {
					return out.Success(o)
				}
				fmt.Fprintf(out.Writer, "Order #%d  %s  %s\n", o.ID, o.Status, formatCreated(o))
				if o.ShippingAddress != "" {
					fmt.Fprintf(out.Writer, "Ship to: %s\n", o.ShippingAddress)
				}
				for _, it := range o.Items {
					name := it.Name
					if name == "" {
						name = fmt.Sprintf("Product %d", it.ProductID)
					}
					fmt.Fprintf(out.Writer, "  %-28s Qty: %-3d %12s\n", name, it.Quantity, a.Money.Amount(it.Price))
				}
				fmt.Fprintf(out.Writer, "Total: %s\n", a.Money.Amount(o.Total))
				return nil
			})
		},
	}
}

func formatCreated(o model.Order) string {
	if o.CreatedAt.IsZero() {
		return "-"
	}
	return o.CreatedAt.Format("2006-01-02 15:04:05")
}

func orderError(out *OutputFormatter, err error) error {
	switch {
	case errors.Is(err, model.ErrNoSession):
		_ = out.Error(CodeNoAuth, "Please login to view your orders", nil)
	case api.IsNotFound(err):
		_ = out.Error(CodeNotFound, "Order not found", nil)
	default:
		_ = out.Error(CodeFailed, "Failed to load orders", err.Error())
	}
	return WrapExitError(ExitFailure, "orders", err)
}
