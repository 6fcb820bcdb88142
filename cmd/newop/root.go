package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"newop/construct-go/internal/config"
	"newop/construct-go/internal/logflags"
	"newop/construct-go/pkg/scenario"
)

var errChecksFailed = errors.New("scenario checks failed")

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "newop [sub-command]",
		Short: "Run the reference construct operator against illustrative constructors",
		Long: `newop drives a reference implementation of the object-construction
operator. Each scenario builds a constructor, constructs with it, and
checks the returned value and its prototype link.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}
	logflags.Register(cmd.PersistentFlags())
	cmd.AddCommand(newRunCommand(), newListCommand(), newSchemaCommand(), newVersionCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	cfg := config.Default()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run scenarios and print a report",
		Example: `  newop run
  newop run --scenario object-return --scenario invalid-callable
  newop run --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := logflags.Logger(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := scenario.Run(ctx, scenario.Options{Names: cfg.Scenarios, Logger: logger})
			if err != nil {
				return err
			}
			if err := scenario.Encode(cmd.OutOrStdout(), report, cfg.Format); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: %d of %d", errChecksFailed, report.Failed, report.Passed+report.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfg.Format, "format", "o", cfg.Format, "report format: "+strings.Join(scenario.Formats, ", "))
	cmd.Flags().StringArrayVarP(&cfg.Scenarios, "scenario", "s", nil, "scenario to run (repeatable); default runs all")
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, sc := range scenario.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", sc.Name, sc.Description)
			}
			return nil
		},
	}
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the run report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := scenario.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), cliToolVersion)
			return err
		},
	}
}
