package bundle

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/platform"
	"github.com/appwrap/appwrap/internal/toolchain"
)

const stage = "assemble"

// Assembler builds bundles from layouts.
type Assembler struct {
	Runner execx.Runner
	Log    *logrus.Entry
}

func (a *Assembler) log() *logrus.Entry {
	if a.Log == nil {
		return logrus.NewEntry(logrus.StandardLogger())
	}
	return a.Log
}

// Prepare creates every directory of l. Existing directories are kept.
func (a *Assembler) Prepare(l *Layout) error {
	for _, dir := range l.Dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return failure.New(failure.AssemblyFailed, stage, errors.Wrapf(err, "creating %s", dir))
		}
	}
	a.log().WithField("root", l.Root).Debug("bundle directories ready")
	return nil
}

// Compile runs the compiler described by spec over the wrapper source,
// writing the executable. An empty spec compiles nothing.
func (a *Assembler) Compile(ctx context.Context, l *Layout, spec *toolchain.Spec) error {
	if spec.Empty() {
		return nil
	}
	cmd := spec.Command(l.Wrapper, l.Executable)
	cmd.Dir = l.Root
	if _, err := a.Runner.Run(ctx, cmd); err != nil {
		return failure.New(failure.CompileFailed, "compile", err)
	}
	return nil
}

// Place copies each artifact into the layout's artifact directory and
// returns the destination paths. Copies are executable. An artifact that
// already sits in the artifact directory is left in place.
func (a *Assembler) Place(l *Layout, artifacts ...string) ([]string, error) {
	placed := make([]string, 0, len(artifacts))
	for _, src := range artifacts {
		dst := filepath.Join(l.ArtifactDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			return placed, failure.New(failure.AssemblyFailed, stage,
				errors.Wrapf(err, "copying artifact %s", src))
		}
		if err := platform.Chmod(dst, 0755); err != nil {
			return placed, failure.New(failure.AssemblyFailed, stage, err)
		}
		a.log().WithField("artifact", dst).Debug("artifact placed")
		placed = append(placed, dst)
	}
	return placed, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.Newf("%s is a directory", src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(info, dstInfo) {
		return nil
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
