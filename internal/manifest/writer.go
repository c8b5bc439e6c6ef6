package manifest

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/appwrap/appwrap/internal/failure"
)

const stage = "manifest"

// Writer writes descriptors through an Editor.
type Writer struct {
	Editor Editor
}

// Write regenerates the descriptor at path from d. Any existing file is
// removed first. Assertions are applied in order, one editor call each; the
// first failing call aborts with the index and key of its assertion and
// leaves the partial file in place.
func (w *Writer) Write(ctx context.Context, path string, d *Descriptor) error {
	if err := Remove(path); err != nil {
		return err
	}

	result, err := Validate(d)
	if err != nil {
		return failure.New(failure.ManifestWriteFailed, stage, err)
	}
	if !result.Valid {
		return failure.Newf(failure.ManifestWriteFailed, stage, "descriptor is invalid: %s", result.Summary())
	}

	ops, err := d.Ops()
	if err != nil {
		return failure.New(failure.ManifestWriteFailed, stage, err)
	}
	for i, op := range ops {
		if err := w.Editor.Apply(ctx, path, op); err != nil {
			return failure.New(failure.ManifestWriteFailed, stage,
				errors.Wrapf(err, "assertion %d (%s)", i, op.Key))
		}
	}
	return nil
}

// Remove deletes the descriptor at path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return failure.New(failure.WriteError, stage, err)
	}
	return nil
}

// Summary joins the issues into one line.
func (r *ValidationResult) Summary() string {
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Path != "" {
			parts = append(parts, issue.Path+": "+issue.Message)
		} else {
			parts = append(parts, issue.Message)
		}
	}
	return strings.Join(parts, "; ")
}
