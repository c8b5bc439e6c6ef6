// Package pipeline drives one packaging run from target resolution to
// launch.
//
// A run moves through a fixed sequence of states:
//
//	Idle -> ToolchainResolved -> WrapperWritten -> Compiled -> Assembled
//	     -> Signed -> Deployed -> Done
//
// Signed is only entered for release builds of targets that sign, and
// Deployed only when a launch was requested. Any failure moves the run to
// Aborted. Each transition is guarded by exactly one component call and
// nothing is retried. A deploy failure aborts the run but leaves the build
// result intact.
package pipeline
