package static

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/ui/styles"
)

// RenderReport renders the report with colored headings. The layout
// matches cleanup.Report.Text.
func RenderReport(r cleanup.Report) string {
	var b strings.Builder
	for _, s := range r.Sections() {
		heading, lineStyle := sectionStyles(s.Kind)
		b.WriteString(heading.Render(s.Heading))
		b.WriteString("\n")

		for _, g := range s.Groups {
			indent := "  "
			if g.Repository != "" {
				b.WriteString("  " + styles.Bold.Render(g.Repository) + "\n")
				indent = "    "
			}
			for _, line := range g.Lines {
				b.WriteString(indent + lineStyle.Render(line) + "\n")
			}
		}
	}
	return b.String()
}

func sectionStyles(kind cleanup.SectionKind) (heading, line lipgloss.Style) {
	switch kind {
	case cleanup.SectionDeleted:
		return styles.SuccessStyle.Bold(true), styles.NormalStyle
	case cleanup.SectionFailed:
		return styles.ErrorStyle.Bold(true), styles.ErrorStyle
	default:
		return styles.WarningStyle.Bold(true), styles.MutedStyle
	}
}
