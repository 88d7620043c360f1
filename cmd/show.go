package cmd

import (
	"github.com/helmcode/robotstatus/pkg/formatter"
	"github.com/helmcode/robotstatus/pkg/pipeline"
	"github.com/spf13/cobra"
)

var showOutputFormat string

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [flags]",
		Short: "Print robot statuses in the terminal",
		Long: `Validate a robot status document and print its robots in the terminal.

Examples:
  # Styled terminal output
  robotstatus show

  # Markdown, e.g. for pasting into an issue
  robotstatus show -o markdown`,
		Args: cobra.NoArgs,
		RunE: runShow,
	}

	addInputFlags(cmd)
	cmd.Flags().StringVarP(&showOutputFormat, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml, markdown)")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := pipeline.Config{InputPath: inputPath, SchemaPath: schemaPath}
	p := pipeline.New(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithDiagnostics(cmd.ErrOrStderr()),
	)

	robots, err := p.Load()
	if err != nil {
		return err
	}
	return formatter.DisplayRobots(cmd.OutOrStdout(), robots, showOutputFormat)
}
