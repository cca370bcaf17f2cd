// Package cleanup finds git repositories, classifies their local branches and
// deletes a selected subset.
//
// # Flow
//
//	engine := cleanup.New(git.NewRunner(), cleanup.Options{Rules: rules})
//	catalog, failures, err := engine.Discover(ctx, roots)
//	// present catalog.Entries, collect a selection
//	targets, err := catalog.Select(selection)
//	outcomes := engine.DeleteAll(ctx, targets)
//	report := cleanup.Summarize(outcomes, failures)
//
// # Discovery
//
// [Locator] asks git for the top-level directory of each root. A root that is
// not inside a repository is searched one subdirectory level at a time, all
// subdirectories concurrently, until a repository is found. The search never
// descends into a found repository, so nested repositories and submodules are
// not reported. Directories git cannot inspect contribute nothing.
//
// # Classification
//
// [Rules.Classify] returns [Default] for exact default names, then
// [Protected] for names matching a protected pattern, else [Deletable].
//
// # Failures
//
// Failures are contained to one repository during discovery
// ([DiscoveryFailure]) and one branch during deletion ([DeletionOutcome]).
// Only [ErrNoRoots] aborts an invocation.
package cleanup
