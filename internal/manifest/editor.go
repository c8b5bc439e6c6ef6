package manifest

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/platform"
)

// Verbs understood by every Editor.
const (
	VerbAdd = "Add"
	VerbSet = "Set"
)

// PlistBuddyPath is the location of Apple's property list editor.
const PlistBuddyPath = "/usr/libexec/PlistBuddy"

// Op is one editor operation.
type Op struct {
	Verb  string
	Key   string
	Type  string
	Value string
}

// Command renders op in PlistBuddy command syntax, e.g.
// Add :CFBundleIdentifier string "io.appwrap.App".
func (o Op) Command() string {
	var b strings.Builder
	b.WriteString(o.Verb)
	b.WriteString(" :")
	b.WriteString(o.Key)
	if o.Verb == VerbAdd {
		b.WriteString(" ")
		b.WriteString(o.Type)
	}
	if o.Type == TypeArray || o.Type == TypeDict {
		return b.String()
	}
	b.WriteString(` "`)
	b.WriteString(strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(o.Value))
	b.WriteString(`"`)
	return b.String()
}

// Editor applies a single operation to the property list at path.
type Editor interface {
	Apply(ctx context.Context, path string, op Op) error
}

// PlistBuddy edits property lists by invoking /usr/libexec/PlistBuddy once
// per operation.
type PlistBuddy struct {
	Runner execx.Runner
	// Path overrides PlistBuddyPath.
	Path string
}

// Apply implements Editor.
func (p *PlistBuddy) Apply(ctx context.Context, path string, op Op) error {
	bin := p.Path
	if bin == "" {
		bin = PlistBuddyPath
	}
	_, err := p.Runner.Run(ctx, execx.Command{
		Name: bin,
		Args: []string{path, "-c", op.Command()},
	})
	return err
}

// Editor kinds accepted by NewEditor.
const (
	EditorAuto       = "auto"
	EditorPlistBuddy = "plistbuddy"
	EditorNative     = "native"
)

// NewEditor returns the editor named by kind. "auto" picks PlistBuddy when
// hostOS is darwin and PlistBuddy is installed, and the native editor
// elsewhere. An empty hostOS means the running host.
func NewEditor(kind, hostOS string, runner execx.Runner) (Editor, error) {
	if hostOS == "" {
		hostOS = platform.HostOS
	}
	switch kind {
	case EditorPlistBuddy:
		return &PlistBuddy{Runner: runner}, nil
	case EditorNative:
		return &Native{}, nil
	case "", EditorAuto:
		if hostOS == "darwin" {
			if _, err := os.Stat(PlistBuddyPath); err == nil {
				return &PlistBuddy{Runner: runner}, nil
			}
		}
		return &Native{}, nil
	default:
		return nil, errors.Newf("unknown plist editor %q: expected %s, %s or %s",
			kind, EditorAuto, EditorPlistBuddy, EditorNative)
	}
}
