// Package static renders non-interactive output: the branch table of the
// list command and the end-of-run report.
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/ui/styles"
)

// BranchTableHeaders are the columns of RenderBranches.
var BranchTableHeaders = []string{"REPOSITORY", "BRANCH", "STATUS"}

// RenderTable creates a borderless table with aligned columns.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// BranchTableRow returns the cells for one catalog entry.
func BranchTableRow(e cleanup.BranchEntry) []string {
	branch := e.Branch
	if e.Current {
		branch = styles.SymbolCurrent + " " + branch
	}
	return []string{e.Repository, branch, styles.FormatClassification(e.Classification)}
}

// RenderBranches renders catalog entries as a table.
func RenderBranches(entries []cleanup.BranchEntry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = BranchTableRow(e)
	}
	return RenderTable(BranchTableHeaders, rows)
}
