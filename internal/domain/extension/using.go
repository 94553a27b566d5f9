package extension

import (
	"context"

	"github.com/felixgeelhaar/extdiff/internal/domain/invoke"
	"github.com/spf13/cobra"
)

// Runner runs an external diff.
type Runner interface {
	Run(ctx context.Context, req invoke.Request) (invoke.Result, error)
}

// RunnerFactory builds a Runner when --using is given, so the repository
// is only opened on that path.
type RunnerFactory func(cmd *cobra.Command) (Runner, error)

// Using adds --using and --diff-options to the diff command. Without
// --using the command behaves exactly as before.
type Using struct {
	factory RunnerFactory
	tools   func() []string
}

// NewUsing creates the extension. tools supplies --using completions and
// may be nil.
func NewUsing(factory RunnerFactory, tools func() []string) *Using {
	return &Using{factory: factory, tools: tools}
}

// Name returns "using".
func (u *Using) Name() string { return "using" }

// Command returns "diff".
func (u *Using) Command() string { return "diff" }

// Extend registers the flags and wraps the command's RunE.
func (u *Using) Extend(cmd *cobra.Command) error {
	if cmd.RunE == nil {
		return ErrNoRunE
	}

	flags := cmd.Flags()
	flags.String("using", "", "compare with an external diff tool, e.g. meld")
	flags.String("diff-options", "", "options passed to the external tool before the two operands")

	if u.tools != nil {
		_ = cmd.RegisterFlagCompletionFunc("using", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return u.tools(), cobra.ShellCompDirectiveNoFileComp
		})
	}

	builtin := cmd.RunE
	cmd.RunE = func(c *cobra.Command, args []string) error {
		tool, _ := c.Flags().GetString("using")
		options, _ := c.Flags().GetString("diff-options")
		if tool == "" {
			if options != "" {
				return &invoke.OptionsWithoutToolError{Options: options}
			}
			return builtin(c, args)
		}

		runner, err := u.factory(c)
		if err != nil {
			return err
		}
		result, err := runner.Run(c.Context(), requestFrom(c, tool, options, args))
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			return &ExitError{Code: result.ExitCode}
		}
		return nil
	}
	return nil
}

// requestFrom reads the host's own diff flags. Flags the host lacks are
// left at their zero values.
func requestFrom(c *cobra.Command, tool, options string, args []string) invoke.Request {
	req := invoke.Request{
		Tool:    tool,
		Options: options,
		Paths:   args,
	}
	flags := c.Flags()
	if revs, err := flags.GetStringArray("revision"); err == nil {
		req.Revisions = revs
	}
	if prefix, err := flags.GetString("prefix"); err == nil {
		req.Prefix = prefix
	}
	if yes, err := flags.GetBool("yes"); err == nil {
		req.AssumeYes = yes
	}
	return req
}
