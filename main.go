package main

import (
	"fmt"
	"os"

	"github.com/helmcode/robotstatus/cmd"
	"github.com/helmcode/robotstatus/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	version = "v0.1.0" // Overwritten at build time
	verbose bool
)

func main() {
	if err := cmd.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load .env: %v\n", err)
		os.Exit(1)
	}

	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	cmd.SyncLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(pipeline.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "robotstatus",
		Short: "Robot operational status reports",
		Long: `robotstatus validates a YAML description of robots and their component health
against a JSON Schema and renders it as a self-contained HTML report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return cmd.InitLogger(verbose)
		},
	}

	// Disable automatic 'completion' command added by cobra
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(
		cmd.NewRenderCmd(),
		cmd.NewValidateCmd(),
		cmd.NewShowCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("robotstatus version %s\n", version)
		},
	}
}
