package manifest

import (
	"context"
	"testing"

	"github.com/appwrap/appwrap/internal/execx/execxtest"
)

func TestOpCommand(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{Op{Verb: VerbAdd, Key: "CFBundleIdentifier", Type: TypeString, Value: "io.appwrap.App"},
			`Add :CFBundleIdentifier string "io.appwrap.App"`},
		{Op{Verb: VerbSet, Key: "CFBundleDisplayName", Type: TypeString, Value: "App"},
			`Set :CFBundleDisplayName "App"`},
		{Op{Verb: VerbAdd, Key: "UISupportedInterfaceOrientations", Type: TypeArray},
			`Add :UISupportedInterfaceOrientations array`},
		{Op{Verb: VerbAdd, Key: "UISupportedInterfaceOrientations:0", Type: TypeString, Value: "UIInterfaceOrientationLandscapeLeft"},
			`Add :UISupportedInterfaceOrientations:0 string "UIInterfaceOrientationLandscapeLeft"`},
		{Op{Verb: VerbAdd, Key: "LSRequiresIPhoneOS", Type: TypeBool, Value: "true"},
			`Add :LSRequiresIPhoneOS bool "true"`},
		{Op{Verb: VerbAdd, Key: "CFBundleSignature", Type: TypeString, Value: `a"b\c`},
			`Add :CFBundleSignature string "a\"b\\c"`},
	}
	for _, tt := range tests {
		if got := tt.op.Command(); got != tt.want {
			t.Errorf("Command() = %s, want %s", got, tt.want)
		}
	}
}

func TestPlistBuddyApply(t *testing.T) {
	rec := &execxtest.Recorder{}
	pb := &PlistBuddy{Runner: rec, Path: "PlistBuddy"}
	op := Op{Verb: VerbAdd, Key: "CFBundleDisplayName", Type: TypeString, Value: "App"}

	if err := pb.Apply(context.Background(), "/out/App.app/Info.plist", op); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	lines := rec.Lines()
	want := `PlistBuddy /out/App.app/Info.plist -c Add :CFBundleDisplayName string "App"`
	if len(lines) != 1 || lines[0] != want {
		t.Errorf("commands = %q, want [%q]", lines, want)
	}
}

func TestNewEditor(t *testing.T) {
	rec := &execxtest.Recorder{}
	if e, err := NewEditor(EditorNative, "linux", rec); err != nil {
		t.Errorf("native: %v", err)
	} else if _, ok := e.(*Native); !ok {
		t.Errorf("native: got %T", e)
	}
	if e, err := NewEditor(EditorPlistBuddy, "linux", rec); err != nil {
		t.Errorf("plistbuddy: %v", err)
	} else if _, ok := e.(*PlistBuddy); !ok {
		t.Errorf("plistbuddy: got %T", e)
	}
	if _, err := NewEditor("xml", "linux", rec); err == nil {
		t.Error("expected error for unknown editor kind")
	}
}

func TestNewEditorAutoFollowsHost(t *testing.T) {
	rec := &execxtest.Recorder{}
	for _, host := range []string{"linux", "windows"} {
		e, err := NewEditor(EditorAuto, host, rec)
		if err != nil {
			t.Fatalf("%s: %v", host, err)
		}
		if _, ok := e.(*Native); !ok {
			t.Errorf("%s: auto picked %T, want *Native", host, e)
		}
	}
}
