// Package failure defines the error kinds a packaging run can end with.
// Every kind is terminal for the current invocation; nothing in the pipeline
// retries or rolls back. Errors carry the name of the stage that produced
// them so the CLI can report which step aborted the run.
package failure
