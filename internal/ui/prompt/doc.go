// Package prompt provides the interactive prompts of the clean command.
//
//   - [Confirm]: yes/no confirmation before branches are deleted
//   - [PickBranches]: fuzzy-filterable multi-select over the branch catalog
//
// All prompts draw on stderr so stdout stays usable for the report.
package prompt
