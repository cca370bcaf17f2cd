package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/log"
	"github.com/raphi011/branch-cleanup/internal/output"
	"github.com/raphi011/branch-cleanup/internal/storage"
	"github.com/raphi011/branch-cleanup/internal/ui/progress"
	"github.com/raphi011/branch-cleanup/internal/ui/prompt"
	"github.com/raphi011/branch-cleanup/internal/ui/static"
)

type cleanOptions struct {
	all        bool
	branch     string
	yes        bool
	dryRun     bool
	parallel   bool
	copy       bool
	reportFile string
}

func newCleanCmd() *cobra.Command {
	var opts cleanOptions

	cmd := &cobra.Command{
		Use:     "clean [dir...]",
		Short:   "Pick and delete local branches",
		Aliases: []string{"c"},
		GroupID: GroupCore,
		Long: `Find repositories below the given directories, list their branches and
delete the ones you select.

Without directories, the configured roots are scanned, or the current
directory if none are configured. Branches are deleted with "git branch -D".

In a terminal a picker shows every branch. Deletable branches that are not
checked out start selected; default and protected branches are shown but
cannot be selected. Without a terminal, select branches with --all or
--branch and confirm with --yes.`,
		Example: `  branch-cleanup clean ~/code              # Pick branches interactively
  branch-cleanup clean --all --dry-run      # Show what --all would delete
  branch-cleanup clean --branch '^fix/' -y  # Delete fix/ branches without asking
  branch-cleanup clean --copy               # Copy the report to the clipboard
  branch-cleanup clean -a -y --report-file /tmp/cleanup.json`,
		ValidArgsFunction: completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Select every deletable branch that is not checked out")
	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "Select deletable branches matching a regular expression")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "d", false, "Print the selection without deleting")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "Delete in different repositories concurrently")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the report to the clipboard")
	cmd.Flags().StringVar(&opts.reportFile, "report-file", "", "Also write the report as JSON to this file")
	cmd.MarkFlagFilename("report-file", "json")

	return cmd
}

func runClean(ctx context.Context, args []string, opts cleanOptions) error {
	l := log.FromContext(ctx)
	out := output.FromContext(ctx)

	settings, err := effectiveConfig()
	if err != nil {
		return err
	}
	if opts.parallel {
		settings.Delete.Parallel = true
	}

	var pattern *regexp.Regexp
	if opts.branch != "" {
		if pattern, err = regexp.Compile(opts.branch); err != nil {
			return fmt.Errorf("invalid --branch pattern: %w", err)
		}
	}

	roots, err := rootsFor(args, settings)
	if err != nil {
		return err
	}

	initTheme()

	var bar *progress.Bar
	engine, err := newEngine(settings, func(o cleanup.DeletionOutcome) {
		if bar != nil {
			bar.Step(o.Repository + "|" + o.Branch)
		}
		if !o.Success {
			l.Debug("delete failed", "repo", o.Repository, "branch", o.Branch, "error", o.Err)
		}
	})
	if err != nil {
		return err
	}

	catalog, failures, err := discover(ctx, engine, roots)
	if err != nil {
		report := cleanup.Report{DiscoveryFailures: failures}
		printReport(ctx, report)
		if opts.reportFile != "" {
			if saveErr := storage.SaveJSON(opts.reportFile, report); saveErr != nil {
				l.Printf("Warning: failed to write report file: %v\n", saveErr)
			}
		}
		return err
	}

	// Repositories that could not be listed are reported before anything
	// else happens, so they show up on every path below.
	printReport(ctx, cleanup.Report{DiscoveryFailures: failures})

	if len(catalog.Deletable()) == 0 {
		out.Println("No branches found")
		return finish(ctx, nil, failures, opts)
	}

	var targets []cleanup.Target
	switch {
	case opts.all || pattern != nil:
		targets = selectTargets(catalog.Entries, pattern)
	case isInteractive():
		res, err := prompt.PickBranches(catalog.Entries)
		if err != nil {
			return err
		}
		if res.Cancelled {
			l.Println("Cancelled")
			return finish(ctx, nil, failures, opts)
		}
		targets = res.Targets
	default:
		return errors.New("not running in a terminal: select branches with --all or --branch")
	}

	if len(targets) == 0 {
		out.Println("No branches selected")
		return finish(ctx, nil, failures, opts)
	}

	targets, err = catalog.Select(targets)
	if err != nil {
		return err
	}

	if opts.dryRun {
		out.Printf("Would delete %s\n", countBranches(len(targets)))
		for _, t := range targets {
			out.Printf("  %s\n", t)
		}
		return finish(ctx, nil, failures, opts)
	}

	if !opts.yes {
		if !isInteractive() {
			return errors.New("not running in a terminal: pass --yes to delete without confirmation")
		}
		res, err := prompt.Confirm(fmt.Sprintf("Delete %s?", countBranches(len(targets))))
		if err != nil {
			return err
		}
		if !res.Confirmed {
			l.Println("Cancelled")
			return finish(ctx, nil, failures, opts)
		}
	}

	if showProgress(ctx) {
		bar = progress.NewBar(len(targets), "Deleting...")
		bar.Start()
	}
	outcomes := engine.DeleteAll(ctx, targets)
	if bar != nil {
		bar.Stop()
	}

	return finish(ctx, outcomes, failures, opts)
}

// finish prints the deletion part of the report, optionally saves or copies
// the whole report and reports failures through the exit status. Discovery
// failures were already printed after the scan.
func finish(ctx context.Context, outcomes []cleanup.DeletionOutcome, failures []cleanup.DiscoveryFailure, opts cleanOptions) error {
	report := cleanup.Summarize(outcomes, failures)
	printReport(ctx, cleanup.Report{Deleted: report.Deleted, Failed: report.Failed})

	if opts.reportFile != "" {
		if err := storage.SaveJSON(opts.reportFile, report); err != nil {
			return fmt.Errorf("write report file: %w", err)
		}
	}

	if opts.copy {
		if text := report.Text(); text != "" {
			if err := clipboard.WriteAll(text); err != nil {
				log.FromContext(ctx).Printf("Warning: failed to copy report to clipboard: %v\n", err)
			}
		}
	}

	if report.HasFailures() {
		return errFailuresReported
	}
	return nil
}

// printReport writes the report, styled when stdout is a terminal.
func printReport(ctx context.Context, report cleanup.Report) {
	out := output.FromContext(ctx)
	if out.IsTerminal() {
		out.Print(static.RenderReport(report))
		return
	}
	out.Print(report.Text())
}
