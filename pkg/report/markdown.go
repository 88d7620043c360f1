package report

import (
	"strings"

	"github.com/helmcode/robotstatus/pkg/model"
)

var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`<`, `&lt;`,
	`>`, `&gt;`,
	`&`, `&amp;`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Markdown renders the same layout as the HTML report as a Markdown document.
func Markdown(robots model.Robots) string {
	var b strings.Builder
	b.WriteString("# " + Title + "\n")

	for _, robot := range robots {
		b.WriteString("\n## " + escapeCell(robot.Name) + "\n\n")
		b.WriteString("| Component | Status Level | Description | Unique ID | Action |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, c := range robot.Components {
			cells := []string{c.Name, c.Status.Level, c.Status.Description, c.Status.UniqueID, c.Status.Action}
			for i := range cells {
				cells[i] = escapeCell(cells[i])
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}
