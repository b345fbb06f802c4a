package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/storefront/internal/app"
	"github.com/roach88/storefront/internal/form"
)

// StudentApplyOptions holds flags for the student-apply command.
type StudentApplyOptions struct {
	*RootOptions
	form.StudentApplication
}

// NewStudentApplyCommand creates the student-apply command.
func NewStudentApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StudentApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "student-apply",
		Short: "Apply for the student discount",
		Long: `Apply for the student discount. The application is checked locally;
nothing is sent.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				return out.Result(a.Views.StudentProgram().Apply(opts.StudentApplication), nil)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "student email")
	cmd.Flags().StringVar(&opts.Institution, "institution", "", "school or university")
	cmd.Flags().StringVar(&opts.StudentID, "student-id", "", "student id number")
	cmd.Flags().StringVar(&opts.Course, "course", "", "course of study")
	return cmd
}
