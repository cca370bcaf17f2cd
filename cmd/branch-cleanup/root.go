package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/branch-cleanup/internal/config"
	"github.com/raphi011/branch-cleanup/internal/git"
	"github.com/raphi011/branch-cleanup/internal/log"
	"github.com/raphi011/branch-cleanup/internal/output"
)

var (
	// Global flags
	verbose           bool
	quiet             bool
	defaultBranches   []string
	protectedPatterns []string

	// Loaded once in Execute, replaced by tests
	cfg = func() *config.Config { c := config.Default(); return &c }()

	// cfgErr holds the error of a config file that could not be loaded.
	// cfg is then only the defaults and must not be used to classify branches.
	cfgErr error
)

// errFailuresReported is returned after a report listing failures has been
// printed. Execute exits 1 without printing it again.
var errFailuresReported = errors.New("some branches could not be listed or deleted")

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupConfig = "config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch-cleanup",
		Short: "Delete local git branches across many repositories",
		Long: `branch-cleanup finds every git repository below the given directories,
lists their local branches and deletes the ones you pick.

Default branches (master, main) and branches matching a protected pattern
are never offered for deletion.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}

			logger := log.New(cmd.ErrOrStderr(), verbose, quiet)
			cmd.SetContext(log.WithLogger(cmd.Context(), logger))

			if skipGitCheck(cmd) {
				return nil
			}
			return git.CheckGit()
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show git commands being executed")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.PersistentFlags().StringArrayVar(&defaultBranches, "default-branch", nil, "Default branch name, never deleted (repeatable, replaces config)")
	cmd.PersistentFlags().StringArrayVar(&protectedPatterns, "protected", nil, "Regular expression for protected branches (repeatable, replaces config)")

	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newReposCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	return cmd
}

// skipGitCheck reports whether cmd runs without git.
func skipGitCheck(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "__complete", "help":
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "config" || cmd.Name() == "config"
}

// loadConfig reads the config file into cfg and keeps a load error in cfgErr.
func loadConfig() {
	loaded, err := config.Load()
	cfg, cfgErr = &loaded, err
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	loadConfig()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = output.WithPrinter(ctx, os.Stdout)

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errFailuresReported) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'branch-cleanup -h' for help")
		os.Exit(1)
	}
}
