package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/log"
	"github.com/raphi011/branch-cleanup/internal/output"
	"github.com/raphi011/branch-cleanup/internal/ui/static"
)

// listOutput is the --json document of the list command.
type listOutput struct {
	Repositories []string                   `json:"repositories"`
	Branches     []cleanup.BranchEntry      `json:"branches"`
	Failures     []cleanup.DiscoveryFailure `json:"failures"`
}

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		all        bool
	)

	cmd := &cobra.Command{
		Use:     "list [dir...]",
		Short:   "List branches that can be deleted",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Long: `List the local branches of every repository below the given directories.

Only deletable branches are shown unless --all is given. A "*" marks the
branch that is checked out.`,
		Example: `  branch-cleanup list ~/code         # Deletable branches below ~/code
  branch-cleanup list --all          # Include default and protected branches
  branch-cleanup list --json | jq .  # Machine readable output`,
		ValidArgsFunction: completeDirs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			settings, err := effectiveConfig()
			if err != nil {
				return err
			}
			roots, err := rootsFor(args, settings)
			if err != nil {
				return err
			}
			engine, err := newEngine(settings, nil)
			if err != nil {
				return err
			}

			if !jsonOutput {
				initTheme()
			}

			catalog, failures, err := discover(ctx, engine, roots)
			if err != nil {
				printReport(ctx, cleanup.Report{DiscoveryFailures: failures})
				return err
			}

			entries := catalog.Entries
			if !all {
				entries = catalog.Deletable()
			}

			if jsonOutput {
				doc := listOutput{
					Repositories: nonNil(catalog.Repositories),
					Branches:     nonNil(entries),
					Failures:     nonNil(failures),
				}
				if err := out.JSON(doc); err != nil {
					return err
				}
			} else {
				if len(entries) == 0 {
					out.Println("No branches found")
				} else {
					out.Print(static.RenderBranches(entries))
				}
				for _, f := range failures {
					l.Printf("Warning: %s: %s\n", f.Repository, f.Err)
				}
			}

			if len(failures) > 0 {
				return errFailuresReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include default and protected branches")

	return cmd
}

// nonNil keeps empty lists as [] in JSON output.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
