package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/helmcode/robotstatus/pkg/model"
	"github.com/helmcode/robotstatus/pkg/report"
	"github.com/helmcode/robotstatus/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Formats accepted by the display functions.
const (
	FormatHuman    = "human"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// DisplayValidation formats and displays a validation result
func DisplayValidation(w io.Writer, result schema.Result, format string) error {
	switch format {
	case FormatJSON:
		return displayJSON(w, validationView(result))
	case FormatYAML:
		return displayYAML(w, validationView(result))
	case FormatHuman:
		displayValidationHuman(w, result)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, yaml)", format)
	}
}

// DisplayRobots formats and displays a robot collection
func DisplayRobots(w io.Writer, robots model.Robots, format string) error {
	if robots == nil {
		robots = model.Robots{}
	}
	switch format {
	case FormatJSON:
		return displayJSON(w, map[string]any{"robots": robots})
	case FormatYAML:
		return displayYAML(w, map[string]any{"robots": robots})
	case FormatMarkdown:
		_, err := io.WriteString(w, report.Markdown(robots))
		return err
	case FormatHuman:
		return displayRobotsHuman(w, robots)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: human, json, yaml, markdown)", format)
	}
}

type validationOutput struct {
	Valid      bool               `json:"valid" yaml:"valid"`
	Violations []schema.Violation `json:"violations" yaml:"violations"`
}

func validationView(result schema.Result) validationOutput {
	violations := result.Violations
	if violations == nil {
		violations = []schema.Violation{}
	}
	return validationOutput{Valid: result.Valid(), Violations: violations}
}

func displayJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func displayYAML(w io.Writer, v any) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, string(output))
	return err
}

func displayValidationHuman(w io.Writer, result schema.Result) {
	red := color.New(color.FgRed, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(w)
	if result.Valid() {
		green.Fprintln(w, "✓ DOCUMENT MATCHES SCHEMA")
		return
	}

	red.Fprintf(w, "✗ %d SCHEMA VIOLATIONS:\n", len(result.Violations))
	for i, v := range result.Violations {
		fmt.Fprintf(w, "   %d. %s\n", i+1, color.YellowString(v.Path))
		fmt.Fprintf(w, "      %s %s\n", v.Reason, color.HiBlackString("("+v.Kind+")"))
	}
	fmt.Fprintln(w)
}

func displayRobotsHuman(w io.Writer, robots model.Robots) error {
	rendered, err := renderMarkdown(report.Markdown(robots), 100)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	fmt.Fprint(w, rendered)

	// Summary
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(w, "📊 STATUS SUMMARY:")
	fmt.Fprintf(w, "   Robots: %d, Components: %d\n", len(robots), robots.ComponentCount())
	for _, lc := range countLevels(robots) {
		getLevelColor(lc.level).Fprintf(w, "   %s %s: %d\n", getLevelIcon(lc.level), lc.level, lc.count)
	}

	// Footer
	fmt.Fprintln(w, strings.Repeat("─", 80))
	fmt.Fprintf(w, "💡 %s\n", color.HiBlackString("Run with -o json or -o yaml for machine-readable output"))
	return nil
}

type levelCount struct {
	level string
	count int
}

// countLevels tallies status levels in order of first appearance.
func countLevels(robots model.Robots) []levelCount {
	var counts []levelCount
	index := map[string]int{}
	for _, robot := range robots {
		for _, c := range robot.Components {
			i, ok := index[c.Status.Level]
			if !ok {
				i = len(counts)
				index[c.Status.Level] = i
				counts = append(counts, levelCount{level: c.Status.Level})
			}
			counts[i].count++
		}
	}
	return counts
}

func getLevelColor(level string) *color.Color {
	switch strings.ToLower(level) {
	case "critical", "error", "fail", "failed", "fault":
		return color.New(color.FgRed, color.Bold)
	case "warn", "warning", "degraded":
		return color.New(color.FgYellow)
	case "ok", "nominal", "healthy", "good":
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

func getLevelIcon(level string) string {
	switch strings.ToLower(level) {
	case "critical", "error", "fail", "failed", "fault":
		return "🔴"
	case "warn", "warning", "degraded":
		return "🟡"
	case "ok", "nominal", "healthy", "good":
		return "🟢"
	default:
		return "⚪"
	}
}

func renderMarkdown(input string, width int) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(input)
}
