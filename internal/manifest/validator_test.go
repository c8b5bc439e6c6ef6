package manifest

import (
	"path/filepath"
	"testing"

	"github.com/appwrap/appwrap/internal/platform"
)

func testIdentity(t *testing.T) Identity {
	t.Helper()
	id, err := NewIdentity("App", "io.appwrap.App", "1.0.0", "1")
	if err != nil {
		t.Fatalf("NewIdentity: %v", err)
	}
	return id
}

func TestValidate_GeneratedDescriptors(t *testing.T) {
	id := testIdentity(t)
	for _, target := range []platform.Target{platform.DesktopMacOS, platform.MobileIOS} {
		t.Run(target.String(), func(t *testing.T) {
			result, err := Validate(ForTarget(target, id))
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if !result.Valid {
				for _, issue := range result.Issues {
					t.Errorf("  path=%s keyword=%s message=%s", issue.Path, issue.Keyword, issue.Message)
				}
				t.Fatal("expected generated descriptor to be valid")
			}
		})
	}
}

func TestValidate_InvalidDescriptors(t *testing.T) {
	tests := []struct {
		name    string
		build   func(d *Descriptor)
		path    string
		keyword string
	}{
		{
			name:    "missing identifier",
			build:   func(d *Descriptor) { d.String("CFBundleDisplayName", "App") },
			keyword: "required",
		},
		{
			name: "identifier without namespace",
			build: func(d *Descriptor) {
				d.String("CFBundleDisplayName", "App").String("CFBundleIdentifier", "App")
			},
			path:    "/CFBundleIdentifier",
			keyword: "pattern",
		},
		{
			name: "wrong package type",
			build: func(d *Descriptor) {
				d.String("CFBundleDisplayName", "App").
					String("CFBundleIdentifier", "io.appwrap.App").
					String("CFBundlePackageType", "FMWK")
			},
			path:    "/CFBundlePackageType",
			keyword: "const",
		},
		{
			name: "unknown orientation",
			build: func(d *Descriptor) {
				d.String("CFBundleDisplayName", "App").
					String("CFBundleIdentifier", "io.appwrap.App").
					Add("UISupportedInterfaceOrientations", TypeArray, "").
					String("UISupportedInterfaceOrientations:0", "Sideways")
			},
			path:    "/UISupportedInterfaceOrientations/0",
			keyword: "enum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Descriptor{}
			tt.build(d)
			result, err := Validate(d)
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid descriptor")
			}
			found := false
			for _, issue := range result.Issues {
				if issue.Keyword == tt.keyword && (tt.path == "" || issue.Path == tt.path) {
					found = true
				}
				if issue.Message == "" {
					t.Errorf("issue at %q has no message", issue.Path)
				}
			}
			if !found {
				t.Errorf("no %s issue at %q in %+v", tt.keyword, tt.path, result.Issues)
			}
		})
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	_, err := ValidateFile(filepath.Join(t.TempDir(), "Info.plist"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestValidationSummary(t *testing.T) {
	r := &ValidationResult{Issues: []ValidationIssue{
		{Path: "/CFBundleIdentifier", Message: "does not match pattern"},
		{Message: "missing property"},
	}}
	want := "/CFBundleIdentifier: does not match pattern; missing property"
	if got := r.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
