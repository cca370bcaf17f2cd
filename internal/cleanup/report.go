package cleanup

import (
	"fmt"
	"strings"
)

// Report aggregates the outcome of one invocation.
type Report struct {
	Deleted           []DeletionOutcome  `json:"deleted"`
	Failed            []DeletionOutcome  `json:"failed"`
	DiscoveryFailures []DiscoveryFailure `json:"discovery_failures"`
}

// Summarize partitions deletion outcomes into successes and failures and
// attaches the discovery failures.
func Summarize(outcomes []DeletionOutcome, failures []DiscoveryFailure) Report {
	r := Report{DiscoveryFailures: failures}
	for _, o := range outcomes {
		if o.Success {
			r.Deleted = append(r.Deleted, o)
		} else {
			r.Failed = append(r.Failed, o)
		}
	}
	return r
}

// HasFailures reports whether any deletion or enumeration failed.
func (r Report) HasFailures() bool {
	return len(r.Failed) > 0 || len(r.DiscoveryFailures) > 0
}

// SectionKind identifies what a report section lists.
type SectionKind int

const (
	SectionDeleted SectionKind = iota
	SectionFailed
	SectionDiscoveryFailed
)

// Section is one heading of the rendered report with its lines.
type Section struct {
	Kind    SectionKind
	Heading string
	Groups  []Group
}

// Group holds the lines of one repository. Repository is empty when the
// section is not grouped.
type Group struct {
	Repository string
	Lines      []string
}

// Sections renders the report into headings and lines. Outcomes are grouped
// by repository when a section spans more than one repository; otherwise
// each line reads "repo|branch".
func (r Report) Sections() []Section {
	var sections []Section

	if n := len(r.Deleted); n > 0 {
		sections = append(sections, Section{
			Kind:    SectionDeleted,
			Heading: fmt.Sprintf("Deleted %d %s", n, plural(n, "branch", "branches")),
			Groups:  groupOutcomes(r.Deleted),
		})
	}
	if n := len(r.Failed); n > 0 {
		sections = append(sections, Section{
			Kind:    SectionFailed,
			Heading: fmt.Sprintf("Failed to delete %d %s", n, plural(n, "branch", "branches")),
			Groups:  groupOutcomes(r.Failed),
		})
	}
	if n := len(r.DiscoveryFailures); n > 0 {
		lines := make([]string, n)
		for i, f := range r.DiscoveryFailures {
			lines[i] = fmt.Sprintf("%s:  %s", f.Repository, reasonLine(f.Err))
		}
		sections = append(sections, Section{
			Kind:    SectionDiscoveryFailed,
			Heading: fmt.Sprintf("Failed to get branches for %d %s", n, plural(n, "repo", "repos")),
			Groups:  []Group{{Lines: lines}},
		})
	}

	return sections
}

// Text renders the report as plain text.
func (r Report) Text() string {
	var b strings.Builder
	for _, s := range r.Sections() {
		b.WriteString(s.Heading)
		b.WriteString("\n")
		for _, g := range s.Groups {
			indent := "  "
			if g.Repository != "" {
				fmt.Fprintf(&b, "  %s\n", g.Repository)
				indent = "    "
			}
			for _, line := range g.Lines {
				b.WriteString(indent)
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func groupOutcomes(outcomes []DeletionOutcome) []Group {
	var repos []string
	byRepo := make(map[string][]DeletionOutcome)
	for _, o := range outcomes {
		if _, ok := byRepo[o.Repository]; !ok {
			repos = append(repos, o.Repository)
		}
		byRepo[o.Repository] = append(byRepo[o.Repository], o)
	}

	if len(repos) == 1 {
		lines := make([]string, len(outcomes))
		for i, o := range outcomes {
			lines[i] = outcomeLine(o.Repository+"|"+o.Branch, o)
		}
		return []Group{{Lines: lines}}
	}

	groups := make([]Group, len(repos))
	for i, repo := range repos {
		g := Group{Repository: repo}
		for _, o := range byRepo[repo] {
			g.Lines = append(g.Lines, outcomeLine(o.Branch, o))
		}
		groups[i] = g
	}
	return groups
}

func outcomeLine(label string, o DeletionOutcome) string {
	if o.Success {
		return label
	}
	return fmt.Sprintf("%s:  %s", label, reasonLine(o.Err))
}

// reasonLine keeps multi-line git errors on one report line. git may print
// warnings before the actual error, so the first "error:" or "fatal:" line
// wins over the first line.
func reasonLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "error:") || strings.HasPrefix(line, "fatal:") {
			return line
		}
	}
	return strings.TrimSpace(lines[0])
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
