package bundle

import (
	"path/filepath"

	"github.com/appwrap/appwrap/internal/platform"
	"github.com/appwrap/appwrap/internal/wrapper"
)

// Layout is the on-disk shape of one bundle.
type Layout struct {
	Target platform.Target
	// Root is the output directory.
	Root string
	// Bundle is the path handed to the signer and deployer. It equals Root
	// for targets without a bundle directory.
	Bundle string
	// Dirs lists the directories to create, parents first.
	Dirs       []string
	Executable string
	// Descriptor is empty when the target has no Info.plist.
	Descriptor string
	// Wrapper is the materialized wrapper source, or the viewer document
	// for web.
	Wrapper     string
	ArtifactDir string
}

// NewLayout returns the layout for t under outDir.
func NewLayout(t platform.Target, outDir, appName string) *Layout {
	l := &Layout{
		Target:      t,
		Root:        outDir,
		Bundle:      outDir,
		Dirs:        []string{outDir},
		Executable:  filepath.Join(outDir, appName+platform.ExeSuffix(t)),
		ArtifactDir: outDir,
	}
	if name := wrapper.SourceName(t); name != "" {
		l.Wrapper = filepath.Join(outDir, name)
	}

	switch t {
	case platform.DesktopMacOS:
		app := filepath.Join(outDir, appName+".app")
		contents := filepath.Join(app, "Contents")
		macos := filepath.Join(contents, "MacOS")
		l.Bundle = app
		l.Dirs = append(l.Dirs, app, contents, macos)
		l.Executable = filepath.Join(macos, appName)
		l.Descriptor = filepath.Join(contents, "Info.plist")
		l.ArtifactDir = macos
	case platform.MobileIOS:
		app := filepath.Join(outDir, appName+".app")
		l.Bundle = app
		l.Dirs = append(l.Dirs, app)
		l.Executable = filepath.Join(app, appName)
		l.Descriptor = filepath.Join(app, "Info.plist")
		l.ArtifactDir = app
	case platform.Web:
		l.Executable = filepath.Join(outDir, appName+".html")
		l.Wrapper = l.Executable
	}
	return l
}
