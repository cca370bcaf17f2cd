package prompt

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/ui/styles"
)

// defaultVisible is the list height used before the terminal size is known.
const defaultVisible = 10

// chromeLines is the number of lines around the list (title, filter, help).
const chromeLines = 7

// PickResult holds the outcome of the branch picker.
type PickResult struct {
	Targets   []cleanup.Target
	Cancelled bool
}

// entrySource implements fuzzy.Source over "repo|branch" labels.
type entrySource []cleanup.BranchEntry

func (s entrySource) String(i int) string { return s[i].Target().String() }
func (s entrySource) Len() int            { return len(s) }

// branchPicker is a filterable multi-select over catalog entries.
// Default and protected entries are listed but cannot be selected.
type branchPicker struct {
	entries  []cleanup.BranchEntry
	filtered []fuzzy.Match
	selected map[int]bool
	cursor   int // position in filtered
	offset   int // first visible row of filtered
	filter   string

	width  int
	height int

	done      bool
	cancelled bool
}

func newBranchPicker(entries []cleanup.BranchEntry) *branchPicker {
	p := &branchPicker{
		entries:  entries,
		selected: make(map[int]bool),
	}
	for i, e := range entries {
		if preselect(e) {
			p.selected[i] = true
		}
	}
	p.applyFilter()
	return p
}

// preselect reports whether an entry starts out checked. The checked-out
// branch is offered but unchecked since git refuses to delete it.
func preselect(e cleanup.BranchEntry) bool {
	return e.Classification == cleanup.Deletable && !e.Current
}

func (p *branchPicker) disabled(idx int) bool {
	return p.entries[idx].Classification != cleanup.Deletable
}

func (p *branchPicker) Init() tea.Cmd {
	return nil
}

func (p *branchPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.scroll()
		return p, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			p.cancelled = true
			p.done = true
			return p, tea.Quit
		case "esc":
			// Clear the filter first, cancel on the second press
			if p.filter != "" {
				p.filter = ""
				p.applyFilter()
				return p, nil
			}
			p.cancelled = true
			p.done = true
			return p, tea.Quit
		case "enter":
			p.done = true
			return p, tea.Quit
		case "up", "ctrl+p":
			p.moveTo(p.findEnabled(p.cursor-1, -1))
		case "down", "ctrl+n":
			p.moveTo(p.findEnabled(p.cursor+1, 1))
		case "home", "pgup":
			p.moveTo(p.findEnabled(0, 1))
		case "end", "pgdown":
			p.moveTo(p.findEnabled(len(p.filtered)-1, -1))
		case "space", " ":
			p.toggle()
		case "ctrl+a":
			p.toggleAll()
		case "backspace":
			if len(p.filter) > 0 {
				r := []rune(p.filter)
				p.filter = string(r[:len(r)-1])
				p.applyFilter()
			}
		default:
			if text := printable(msg.Text); text != "" {
				p.filter += text
				p.applyFilter()
			}
		}
	}
	return p, nil
}

// printable drops control characters and spaces from typed text.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) || r == ' ' {
			return -1
		}
		return r
	}, s)
}

func (p *branchPicker) toggle() {
	if len(p.filtered) == 0 {
		return
	}
	idx := p.filtered[p.cursor].Index
	if p.disabled(idx) {
		return
	}
	if p.selected[idx] {
		delete(p.selected, idx)
	} else {
		p.selected[idx] = true
	}
}

// toggleAll selects every visible enabled entry, or clears them when all
// of them are already selected.
func (p *branchPicker) toggleAll() {
	all := true
	for _, m := range p.filtered {
		if !p.disabled(m.Index) && !p.selected[m.Index] {
			all = false
			break
		}
	}
	for _, m := range p.filtered {
		if p.disabled(m.Index) {
			continue
		}
		if all {
			delete(p.selected, m.Index)
		} else {
			p.selected[m.Index] = true
		}
	}
}

// findEnabled walks from start in direction step and returns the first
// selectable row, or -1.
func (p *branchPicker) findEnabled(start, step int) int {
	for i := start; i >= 0 && i < len(p.filtered); i += step {
		if !p.disabled(p.filtered[i].Index) {
			return i
		}
	}
	return -1
}

func (p *branchPicker) moveTo(i int) {
	if i < 0 {
		return
	}
	p.cursor = i
	p.scroll()
}

func (p *branchPicker) visibleRows() int {
	if p.height <= 0 {
		return defaultVisible
	}
	return max(1, p.height-chromeLines)
}

func (p *branchPicker) scroll() {
	rows := p.visibleRows()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+rows {
		p.offset = p.cursor - rows + 1
	}
	p.offset = max(0, min(p.offset, len(p.filtered)-1))
}

func (p *branchPicker) applyFilter() {
	if p.filter == "" {
		p.filtered = make([]fuzzy.Match, len(p.entries))
		for i, e := range p.entries {
			p.filtered[i] = fuzzy.Match{Str: e.Target().String(), Index: i}
		}
	} else {
		p.filtered = fuzzy.FindFrom(p.filter, entrySource(p.entries))
	}

	p.cursor = 0
	p.offset = 0
	if first := p.findEnabled(0, 1); first >= 0 {
		p.cursor = first
	}
	p.scroll()
}

// Targets returns the selected entries in catalog order.
func (p *branchPicker) Targets() []cleanup.Target {
	var targets []cleanup.Target
	for i, e := range p.entries {
		if p.selected[i] {
			targets = append(targets, e.Target())
		}
	}
	return targets
}

func (p *branchPicker) View() tea.View {
	if p.done {
		return tea.NewView("")
	}

	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.Primary)
	fmt.Fprintf(&b, "%s %s\n",
		title.Render("Select branches to delete"),
		styles.MutedStyle.Render(fmt.Sprintf("(%d of %d selected)", len(p.selected), p.selectableCount())))
	fmt.Fprintf(&b, "%s%s\n\n", styles.MutedStyle.Render("Filter: "), styles.AccentStyle.Render(p.filter))

	rows := p.visibleRows()
	end := min(p.offset+rows, len(p.filtered))

	if p.offset > 0 {
		b.WriteString(styles.MutedStyle.Render("  ↑ more above") + "\n")
	}
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(i) + "\n")
	}
	if end < len(p.filtered) {
		b.WriteString(styles.MutedStyle.Render("  ↓ more below") + "\n")
	}
	if len(p.filtered) == 0 {
		b.WriteString(styles.MutedStyle.Render("  No matching branches") + "\n")
	}

	b.WriteString("\n" + styles.MutedStyle.Render("↑/↓ move • space toggle • ctrl+a toggle all • type to filter • enter delete • esc cancel"))
	return tea.NewView(b.String())
}

func (p *branchPicker) renderRow(i int) string {
	match := p.filtered[i]
	entry := p.entries[match.Index]

	cursor := "  "
	if i == p.cursor {
		cursor = styles.AccentStyle.Render("> ")
	}

	box := styles.SymbolUnchecked
	switch {
	case p.disabled(match.Index):
		box = styles.SymbolLocked
	case p.selected[match.Index]:
		box = styles.SymbolChecked
	}

	label := p.highlight(match, i == p.cursor)
	suffix := ""
	switch {
	case p.disabled(match.Index):
		suffix = " " + styles.FormatClassification(entry.Classification)
	case entry.Current:
		suffix = " " + styles.InfoStyle.Render("(checked out)")
	}

	row := cursor + box + " " + label + suffix
	if p.width > 0 {
		row = ansi.Truncate(row, p.width, "…")
	}
	return row
}

// highlight renders the label with fuzzy-matched characters emphasised.
func (p *branchPicker) highlight(match fuzzy.Match, atCursor bool) string {
	base := styles.NormalStyle
	switch {
	case p.disabled(match.Index):
		base = styles.MutedStyle
	case atCursor:
		base = styles.AccentStyle
	}

	if len(match.MatchedIndexes) == 0 {
		return base.Render(match.Str)
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		hit[idx] = true
	}

	// MatchedIndexes are byte offsets into Str
	var b strings.Builder
	for i, r := range match.Str {
		if hit[i] {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func (p *branchPicker) selectableCount() int {
	n := 0
	for i := range p.entries {
		if !p.disabled(i) {
			n++
		}
	}
	return n
}

// PickBranches lets the user choose which catalog entries to delete.
// The TUI renders to stderr so stdout stays free for the report.
func PickBranches(entries []cleanup.BranchEntry) (PickResult, error) {
	if len(entries) == 0 {
		return PickResult{}, nil
	}

	profile := colorprofile.Detect(os.Stderr, os.Environ())
	prog := tea.NewProgram(newBranchPicker(entries),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)

	finalModel, err := prog.Run()
	if err != nil {
		return PickResult{}, err
	}

	m := finalModel.(*branchPicker)
	if m.cancelled || !m.done {
		return PickResult{Cancelled: true}, nil
	}
	return PickResult{Targets: m.Targets()}, nil
}
