// Package signer applies code signatures to Apple bundles.
package signer

import (
	"context"

	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/failure"
)

const stage = "sign"

// Signer runs codesign.
type Signer struct {
	Runner execx.Runner
	// Identity is passed to codesign -s. "-" signs ad hoc.
	Identity string
}

// Sign signs the bundle at path.
func (s *Signer) Sign(ctx context.Context, path string) error {
	identity := s.Identity
	if identity == "" {
		identity = "-"
	}
	_, err := s.Runner.Run(ctx, execx.Command{
		Name: "codesign",
		Args: []string{"-s", identity, path},
	})
	if err != nil {
		return failure.New(failure.SigningFailed, stage, err)
	}
	return nil
}
