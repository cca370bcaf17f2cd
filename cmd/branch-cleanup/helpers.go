package main

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/config"
	"github.com/raphi011/branch-cleanup/internal/git"
	"github.com/raphi011/branch-cleanup/internal/log"
	"github.com/raphi011/branch-cleanup/internal/ui/progress"
	"github.com/raphi011/branch-cleanup/internal/ui/styles"
)

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// isInteractive reports whether prompts can be shown: stdin for keys and
// stderr for drawing.
func isInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

// showProgress reports whether spinners and progress bars are drawn.
func showProgress(ctx context.Context) bool {
	return isTerminal(os.Stderr) && !quiet && !log.FromContext(ctx).IsVerbose()
}

// initTheme applies the configured theme. The terminal is only queried for
// its background color when stderr is a terminal.
func initTheme() {
	if isTerminal(os.Stderr) {
		styles.Init(cfg.Theme)
	}
}

// effectiveConfig applies --default-branch and --protected to the loaded config.
// A config file that failed to load is an error: falling back to the defaults
// would drop the user's protected patterns.
func effectiveConfig() (config.Config, error) {
	if cfgErr != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w\n\nFix the file or recreate it with 'branch-cleanup config init --force'", cfgErr)
	}
	return cfg.WithOverrides(defaultBranches, protectedPatterns)
}

// rootsFor returns the directories to scan: arguments, then configured
// roots, then the working directory.
func rootsFor(args []string, c config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(c.Roots) > 0 {
		return c.Roots, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return []string{wd}, nil
}

// newEngine builds an engine from the effective config.
func newEngine(c config.Config, onDeleted func(cleanup.DeletionOutcome)) (*cleanup.Engine, error) {
	rules, err := cleanup.CompileRules(c.DefaultBranches, c.ProtectedPatterns)
	if err != nil {
		return nil, err
	}
	return cleanup.New(git.NewRunner(), cleanup.Options{
		Rules:       rules,
		Concurrency: c.Scan.Concurrency,
		Parallel:    c.Delete.Parallel,
		OnDeleted:   onDeleted,
	}), nil
}

// discover runs Discover behind a spinner when stderr is a terminal.
func discover(ctx context.Context, e *cleanup.Engine, roots []string) (cleanup.Catalog, []cleanup.DiscoveryFailure, error) {
	if showProgress(ctx) {
		sp := progress.NewSpinner(fmt.Sprintf("Scanning %d %s for repositories...", len(roots), plural(len(roots), "directory", "directories")))
		sp.Start()
		defer sp.Stop()
	}

	catalog, failures, err := e.Discover(ctx, roots)
	if err != nil {
		return catalog, failures, err
	}

	log.FromContext(ctx).Debug("discovered branches",
		"repos", len(catalog.Repositories),
		"branches", len(catalog.Entries),
		"failures", len(failures))
	return catalog, failures, nil
}

// selectTargets picks entries without the picker: every deletable branch
// that is not checked out, narrowed to names matching pattern when set.
func selectTargets(entries []cleanup.BranchEntry, pattern *regexp.Regexp) []cleanup.Target {
	var targets []cleanup.Target
	for _, e := range entries {
		if e.Classification != cleanup.Deletable || e.Current {
			continue
		}
		if pattern != nil && !pattern.MatchString(e.Branch) {
			continue
		}
		targets = append(targets, e.Target())
	}
	return targets
}

// countBranches formats "1 branch" or "N branches".
func countBranches(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "branch", "branches"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// completeDirs completes directory arguments.
func completeDirs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}
