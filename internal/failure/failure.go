package failure

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds. Match with errors.Is.
var (
	ToolchainUnresolved  = errors.New("toolchain unresolved")
	ToolchainAmbiguous   = errors.New("toolchain ambiguous")
	ToolchainQueryFailed = errors.New("toolchain query failed")
	WriteError           = errors.New("write error")
	AssemblyFailed       = errors.New("assembly failed")
	CompileFailed        = errors.New("compile failed")
	ManifestWriteFailed  = errors.New("manifest write failed")
	SigningFailed        = errors.New("signing failed")
	DeployFailed         = errors.New("deploy failed")
)

// Kinds lists every error kind in pipeline order.
var Kinds = []error{
	ToolchainUnresolved,
	ToolchainAmbiguous,
	ToolchainQueryFailed,
	WriteError,
	AssemblyFailed,
	CompileFailed,
	ManifestWriteFailed,
	SigningFailed,
	DeployFailed,
}

// Error is a stage-tagged failure.
type Error struct {
	Kind  error
	Stage string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

// New returns an error of the given kind raised by stage. cause may be nil.
func New(kind error, stage string, cause error) error {
	return errors.Mark(&Error{Kind: kind, Stage: stage, cause: cause}, kind)
}

// Newf is New with a formatted cause.
func Newf(kind error, stage, format string, args ...interface{}) error {
	return New(kind, stage, errors.Newf(format, args...))
}

// KindOf returns the kind of err, or nil when err is not a stage failure.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return nil
}

// StageOf returns the stage that raised err, or "" when unknown.
func StageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}
