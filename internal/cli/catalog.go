package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/api"
	"github.com/roach88/storefront/internal/app"
)

// ProductsOptions holds flags for the products command.
type ProductsOptions struct {
	*RootOptions
	Category string
}

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		Long: `List catalog products, optionally for one category.

Examples:
  storefront products
  storefront products --category dresses --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return listProducts(ctx, a, out, opts.Category)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "only list this category")
	return cmd
}

func listProducts(ctx context.Context, a *app.App, out *OutputFormatter, category string) error {
	products, err := a.API.ListProducts(ctx, category)
	if err != nil {
		_ = out.Error(CodeFailed, "Failed to load products", err.Error())
		return WrapExitError(ExitFailure, "list products", err)
	}
	if out.JSON() {
		return out.Success(products)
	}
	if len(products) == 0 {
		fmt.Fprintln(out.Writer, "Collection Coming Soon")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(out.Writer, "%-5d %-28s %10s  %s\n", p.ID, p.Name, a.Money.Price(p.Price), p.Category)
	}
	return nil
}

// NewProductCommand creates the product command.
func NewProductCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Long: `Show one product's details.

Example:
  storefront product 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("product", args[0])
			if err != nil {
				return err
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return showProduct(ctx, a, out, id)
			})
		},
	}
	return cmd
}

func showProduct(ctx context.Context, a *app.App, out *OutputFormatter, id int64) error {
	p, err := a.API.GetProduct(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			_ = out.Error(CodeNotFound, "Product not found", nil)
			return WrapExitError(ExitFailure, "product not found", err)
		}
		_ = out.Error(CodeFailed, "Failed to load product", err.Error())
		return WrapExitError(ExitFailure, "get product", err)
	}
	if out.JSON() {
		return out.Success(p)
	}
	fmt.Fprintf(out.Writer, "%s\n%s\n", p.Name, a.Money.Price(p.Price))
	if p.Category != "" {
		fmt.Fprintf(out.Writer, "Category: %s\n", p.Category)
	}
	if p.Description != "" {
		fmt.Fprintln(out.Writer, p.Description)
	}
	return nil
}
