// Package cli defines the Cobra command tree for the appwrap CLI. Each file
// in this package registers one top-level command (build, run, doctor, etc.)
// with the root command. Command implementations delegate to internal packages
// for the packaging work and only handle flag parsing and output formatting.
package cli
