package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/branch-cleanup/internal/cleanup"
	"github.com/raphi011/branch-cleanup/internal/log"
	"github.com/raphi011/branch-cleanup/internal/output"
)

func newReposCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "repos [dir...]",
		Short:   "List repositories found below directories",
		GroupID: GroupCore,
		Long: `Print the top-level directory of every git repository found below the
given directories. Repositories nested inside another repository are not
searched for.`,
		Example: `  branch-cleanup repos ~/code ~/work
  branch-cleanup repos --json`,
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

			usable, failures := cleanup.ResolveRoots(roots)
			for _, f := range failures {
				l.Printf("Warning: %s: %s\n", f.Repository, f.Err)
			}
			if len(usable) == 0 {
				return cleanup.ErrNoRoots
			}

			repos := engine.LocateAll(ctx, usable)
			if jsonOutput {
				if err := out.JSON(nonNil(repos)); err != nil {
					return err
				}
			} else {
				for _, r := range repos {
					out.Println(r)
				}
			}

			if len(failures) > 0 {
				return errFailuresReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
