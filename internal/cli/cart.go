package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/model"
)

// CartData is the JSON payload describing the cart.
type CartData struct {
	Items     []model.CartItem `json:"items"`
	Total     string           `json:"total"`
	ItemCount int              `json:"item_count"`
}

func cartData(a *app.App) CartData {
	return CartData{
		Items:     a.Cart.Items(),
		Total:     a.Cart.Total().String(),
		ItemCount: a.Cart.ItemCount(),
	}
}

// NewCartCommand creates the cart command and its subcommands.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
		Long: `Show the cart page. Subcommands change it.

Examples:
  storefront cart
  storefront cart add 3 --qty 2
  storefront cart update 3 1
  storefront cart remove 3
  storefront cart clear --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if out.JSON() {
					return out.Success(cartData(a))
				}
				return renderPage(ctx, a, out, "/cart")
			})
		},
	}

	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartUpdateCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))
	return cmd
}

// CartAddOptions holds flags for cart add.
type CartAddOptions struct {
	*RootOptions
	Quantity int
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "add <product-id>",
		Short:         "Add a product to the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				page := a.Views.Product(id)
				page.Load(ctx)
				page.SetQuantity(opts.Quantity)
				return out.Result(page.AddToCart(ctx), cartData(a))
			})
		},
	}

	cmd.Flags().IntVar(&opts.Quantity, "qty", 1, "units to add (at least 1)")
	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <product-id>",
		Short:         "Remove a product's line from the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return out.Result(a.Views.Cart().Remove(ctx, id), cartData(a))
			})
		},
	}
}

func newCartUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set a line's quantity",
		Long: `Set a line's quantity. Zero is sent to the server, which drops the line.
Negative quantities are rejected.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid quantity %q", args[1]))
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return out.Result(a.Cart.UpdateQuantity(ctx, id, qty), cartData(a))
			})
		},
	}
}

// CartClearOptions holds flags for cart clear.
type CartClearOptions struct {
	*RootOptions
	Yes bool
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CartClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Long: `Empty the cart. Clearing needs confirmation, given with --yes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				page := a.Views.Cart()
				res := page.Clear(ctx)
				if opts.Yes {
					res = page.Clear(ctx)
				} else {
					res.Reason += " (run again with --yes)"
				}
				return out.Result(res, cartData(a))
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm clearing the cart")
	return cmd
}
