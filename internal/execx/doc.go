// Package execx runs the external tools a packaging run depends on:
// compilers, plist editors, codesign, simctl and the produced executables.
// Every invocation blocks until the process exits; the exit status is the
// only success signal. Captured stderr is attached to failures so callers
// can surface the tool's own message.
package execx
