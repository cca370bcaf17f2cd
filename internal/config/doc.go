// Package config handles loading and validation of branch-cleanup configuration.
//
// Configuration is read from ~/.config/branch-cleanup/config.toml
// (or the file named by BRANCH_CLEANUP_CONFIG).
//
// # Configuration Sources (highest priority first)
//
//   - Command line flags (--default-branch, --protected, root arguments)
//   - BRANCH_CLEANUP_ROOTS env var: directories to scan
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - roots: directories scanned when none are given (absolute or ~/...)
//   - default_branches: exact names never offered for deletion (default: master, main)
//   - protected_patterns: regular expressions for protected branch names
//   - scan.concurrency: concurrent git processes (default: 8)
//   - delete.parallel: delete across repositories concurrently
//
// Unknown keys are rejected so typos do not silently disable protection.
package config
