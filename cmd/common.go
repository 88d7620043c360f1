package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultInputPath  = "./spec/robot_operational_status.yaml"
	defaultOutputPath = "./out/robot_operational_status.html"
)

var (
	inputPath  string
	schemaPath string
	logger     = zap.NewNop()
)

// LoadDotEnv reads .env from the working directory when one exists, so its
// ROBOTSTATUS_* values become flag defaults.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

// InitLogger builds the process logger. Verbose enables debug output.
func InitLogger(verbose bool) error {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	_ = logger.Sync()
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputPath, "input", "i", getenv("ROBOTSTATUS_INPUT", defaultInputPath), "Path to the robot status YAML document")
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", getenv("ROBOTSTATUS_SCHEMA", ""), "Path to a JSON Schema (defaults to the built-in schema)")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Fprintf(os.Stderr, "✗ %s\n", msg)
}
