package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/router"
)

// PageData is the JSON payload for a rendered page.
type PageData struct {
	Path string `json:"path"`
	Page string `json:"page"`
	Body string `json:"body"`
}

// NewOpenCommand creates the open command.
func NewOpenCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [path]",
		Short: "Render a storefront page",
		Long: `Render a storefront page by path.

Paths:
  /                        home
  /collections             Wildflower Collection
  /collections/<category>  one category
  /product/<id>            product detail
  /cart, /checkout         cart and checkout
  /login, /register        sign in and sign up
  /our-story               brand story
  /student-program         student discount

Examples:
  storefront open
  storefront open /collections/dresses
  storefront open /product/3 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return renderPage(ctx, a, out, path)
			})
		},
	}
	return cmd
}

// renderPage navigates to path and writes the page in the configured
// format.
func renderPage(ctx context.Context, a *app.App, out *OutputFormatter, path string) error {
	var buf bytes.Buffer
	page, err := a.Navigate(ctx, path, &buf)
	if err != nil {
		var nf *router.NotFoundError
		if errors.As(err, &nf) {
			_ = out.Error(CodeNotFound, fmt.Sprintf("no page at %s", nf.Path), nil)
			return WrapExitError(ExitFailure, "page not found", err)
		}
		return WrapExitError(ExitCommandError, "failed to open page", err)
	}

	if out.JSON() {
		return out.Success(PageData{Path: path, Page: page.Title(), Body: buf.String()})
	}
	_, err = out.Writer.Write(buf.Bytes())
	return err
}

// parseID parses a positional id argument.
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s id %q", what, s))
	}
	return id, nil
}
