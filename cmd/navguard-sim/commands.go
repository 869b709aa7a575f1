package main

import (
	"fmt"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
	"github.com/BrandonKowalski/navguard/pkg/navguard/scenario"
	"github.com/spf13/cobra"
)

// noDepth means --expect-depth was not given.
const noDepth = -1

type options struct {
	verbose     bool
	configPath  string
	expectDepth int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "navguard-sim",
		Short: "Replay navigation scenarios against an exit guard",
		Long: `navguard-sim runs scripted back presses, exit buttons and close attempts
against a guarded history and prints the resulting depth and guard state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setupLogging()
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log guard decisions")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "navguard TOML config (log level, log path, message files)")

	root.AddCommand(newRunCmd(opts), newValidateCmd())
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario>...",
		Short: "Run scenarios and print their traces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if err := runScenario(cmd, path, opts.expectDepth); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.expectDepth, "expect-depth", noDepth, "Fail unless every scenario ends at this depth")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario>...",
		Short: "Check scenario files without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				s, err := scenario.Load(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok %s (%d steps)\n", path, len(s.Steps))
			}
			return nil
		},
	}
}

func runScenario(cmd *cobra.Command, path string, expectDepth int) error {
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}

	trace, err := scenario.Run(s)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", trace.Name)
	for _, rec := range trace.Records {
		fmt.Fprintln(out, rec.String())
	}
	fmt.Fprintf(out, "final depth=%d prompts=%d confirmed=%d rejected=%d warnings=%d\n",
		trace.Depth, trace.Stats.Prompts, trace.Stats.Confirmed, trace.Stats.Rejected, trace.Stats.CloseWarnings)

	if expectDepth != noDepth && trace.Depth != expectDepth {
		return fmt.Errorf("%s: final depth %d, expected %d", trace.Name, trace.Depth, expectDepth)
	}
	return nil
}

func (o *options) setupLogging() error {
	if o.configPath != "" {
		cfg, err := navguard.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		cfg.ApplyLogging()
	}
	if o.verbose {
		navguard.SetRawLogLevel("debug")
	}
	return nil
}
