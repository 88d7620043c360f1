package cmd

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/helmcode/robotstatus/pkg/pipeline"
	"github.com/spf13/cobra"
)

var (
	renderOutputPath string
	renderImageDir   string
)

func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [flags]",
		Short: "Validate robot statuses and render the HTML report",
		Long: `Validate a robot status document against its schema and render it as an HTML report.

Nothing is written when the document is invalid: every violation is printed to stderr
and the command exits with a non-zero status.

Examples:
  # Render using the default paths
  robotstatus render

  # Render a specific document to a specific file
  robotstatus render -i fleet.yaml -f reports/fleet.html

  # Validate against a custom schema and include robot pictures
  robotstatus render -s schema.json --image-dir ../static`,
		Args: cobra.NoArgs,
		RunE: runRender,
	}

	addInputFlags(cmd)
	cmd.Flags().StringVarP(&renderOutputPath, "output", "f", getenv("ROBOTSTATUS_OUTPUT", defaultOutputPath), "Path of the HTML report to write")
	cmd.Flags().StringVar(&renderImageDir, "image-dir", getenv("ROBOTSTATUS_IMAGE_DIR", ""), "Directory with <robot>.jpeg pictures to reference from the report")

	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := pipeline.Config{
		InputPath:  inputPath,
		SchemaPath: schemaPath,
		OutputPath: renderOutputPath,
		ImageDir:   renderImageDir,
	}
	printRenderHeader(cfg)

	var diag bytes.Buffer
	p := pipeline.New(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithDiagnostics(&diag),
	)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Validating and rendering robot statuses..."
	s.Start()
	err := p.Run()
	s.Stop()

	if diag.Len() > 0 {
		_, _ = io.Copy(cmd.ErrOrStderr(), &diag)
	}
	if err != nil {
		printError(fmt.Sprintf("Report not written (%s error)", pipeline.KindOf(err)))
		return err
	}

	printSuccess(fmt.Sprintf("Report written to %s", cfg.OutputPath))
	return nil
}

func printRenderHeader(cfg pipeline.Config) {
	cyan := color.New(color.FgCyan, color.Bold)
	fmt.Println()
	cyan.Println("🤖 Robot Operational Status")
	fmt.Printf("📄 Input: %s\n", cfg.InputPath)
	if cfg.SchemaPath != "" {
		fmt.Printf("📐 Schema: %s\n", cfg.SchemaPath)
	} else {
		fmt.Println("📐 Schema: built-in")
	}
	fmt.Printf("📝 Output: %s\n", cfg.OutputPath)
	if cfg.ImageDir != "" {
		fmt.Printf("🖼  Images: %s\n", cfg.ImageDir)
	}
	fmt.Println()
}
