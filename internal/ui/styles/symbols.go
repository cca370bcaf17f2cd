package styles

import (
	"charm.land/lipgloss/v2"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
)

// Markers used in lists, pickers and reports.
const (
	SymbolSuccess   = "✓"
	SymbolFailure   = "✗"
	SymbolCurrent   = "*"
	SymbolChecked   = "[x]"
	SymbolUnchecked = "[ ]"
	SymbolLocked    = "[-]"
)

// ClassificationStyle returns the style used to render a branch of the
// given classification.
func ClassificationStyle(c cleanup.Classification) lipgloss.Style {
	switch c {
	case cleanup.Default:
		return InfoStyle
	case cleanup.Protected:
		return WarningStyle
	default:
		return NormalStyle
	}
}

// FormatClassification renders the classification label in its color.
func FormatClassification(c cleanup.Classification) string {
	return ClassificationStyle(c).Render(c.String())
}
