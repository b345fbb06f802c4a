package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/form"
	"github.com/roach88/storefront/internal/model"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email    string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: `Sign in and keep the session for later commands.

Example:
  storefront login --email asha@example.com --password secret`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				res := a.Views.Login().SubmitLogin(ctx, form.Login{Email: opts.Email, Password: opts.Password})
				return out.Result(res, a.Session.User())
			})
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	return cmd
}

// RegisterOptions holds flags for the register command.
type RegisterOptions struct {
	*RootOptions
	Name     string
	Email    string
	Password string
}

// NewRegisterCommand creates the register command.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RegisterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an account and keep the new session.

Example:
  storefront register --name Asha --email asha@example.com --password secret`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				res := a.Views.Register().SubmitRegister(ctx, form.Register{Name: opts.Name, Email: opts.Email, Password: opts.Password})
				return out.Result(res, a.Session.User())
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.Password, "password", "", "account password")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "Sign out and forget the stored session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				a.Logout(ctx)
				return out.Result(model.Success("Logged out"), nil)
			})
		},
	}
}

// WhoamiOptions holds flags for the whoami command.
type WhoamiOptions struct {
	*RootOptions
	Refresh bool
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WhoamiOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Show the signed-in user from the stored session.

With --refresh the profile is reloaded from the API first.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return whoami(ctx, a, out, opts.Refresh)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "reload the profile from the API")
	return cmd
}

func whoami(ctx context.Context, a *app.App, out *OutputFormatter, refresh bool) error {
	if !a.Session.LoggedIn() {
		return out.Result(model.Failure("Not logged in", model.ErrNoSession), nil)
	}
	if refresh {
		if res := a.Session.Refresh(ctx); !res.OK {
			return out.Result(res, nil)
		}
	}
	u := a.Session.User()
	if out.JSON() {
		return out.Success(u)
	}
	return out.Success(fmt.Sprintf("%s <%s>", u.Name, u.Email))
}
