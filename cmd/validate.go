package cmd

import (
	"github.com/helmcode/robotstatus/pkg/formatter"
	"github.com/helmcode/robotstatus/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	validateOutputFormat string
	validatePrintSchema  bool
)

func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags]",
		Short: "Check a robot status document against its schema",
		Long: `Check a robot status document against its schema and list every violation.

Examples:
  # Validate the default document
  robotstatus validate

  # Machine-readable result
  robotstatus validate -i fleet.yaml -o json

  # Print the schema documents are checked against
  robotstatus validate --print-schema`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	addInputFlags(cmd)
	cmd.Flags().StringVarP(&validateOutputFormat, "output", "o", formatter.FormatHuman, "Output format (human, json, yaml)")
	cmd.Flags().BoolVar(&validatePrintSchema, "print-schema", false, "Print the schema in effect and exit without reading the input")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := pipeline.Config{InputPath: inputPath, SchemaPath: schemaPath}
	p := pipeline.New(cfg, pipeline.WithLogger(logger))

	if validatePrintSchema {
		doc, err := p.SchemaDocument()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(doc)
		return err
	}

	result, err := p.Check()
	if err != nil {
		return err
	}

	// Human-readable violations belong on the diagnostic channel, like render and show.
	out := cmd.OutOrStdout()
	if !result.Valid() && validateOutputFormat == formatter.FormatHuman {
		out = cmd.ErrOrStderr()
	}
	if err := formatter.DisplayValidation(out, result, validateOutputFormat); err != nil {
		return err
	}
	if !result.Valid() {
		return &pipeline.Error{Kind: pipeline.KindValidation, Op: "validate", Path: cfg.InputPath, Err: result.Err()}
	}
	return nil
}
