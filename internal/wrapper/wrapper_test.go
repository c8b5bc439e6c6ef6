package wrapper

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/platform"
)

func TestPayloadForEveryTarget(t *testing.T) {
	for _, target := range platform.Targets {
		data, err := Payload(target)
		if err != nil {
			t.Errorf("Payload(%v): %v", target, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("Payload(%v) is empty", target)
		}
	}
}

func TestSourceName(t *testing.T) {
	tests := map[platform.Target]string{
		platform.DesktopMacOS:    "wrapper.m",
		platform.MobileIOS:       "wrapper.m",
		platform.MobileAndroid:   "wrapper.c",
		platform.DesktopLinuxX11: "wrapper.c",
		platform.DesktopWindows:  "wrapper.c",
		platform.Web:             "",
	}
	for target, want := range tests {
		if got := SourceName(target); got != want {
			t.Errorf("SourceName(%v) = %q, want %q", target, got, want)
		}
	}
}

func TestMaterializeOverwrites(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "wrapper.c")
	if err := os.WriteFile(dst, []byte("stale contents that are much longer than nothing"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Materialize(platform.DesktopLinuxX11, dst, ViewerData{}); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Payload(platform.DesktopLinuxX11)
	if !bytes.Equal(got, want) {
		t.Error("materialized file does not match the embedded payload")
	}
	if !strings.Contains(string(got), "XOpenDisplay") {
		t.Error("x11 payload does not open a display")
	}
}

func TestMaterializeMissingDirectory(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "wrapper.c")
	err := Materialize(platform.MobileAndroid, dst, ViewerData{})
	if !errors.Is(err, failure.WriteError) {
		t.Fatalf("error = %v, want WriteError", err)
	}
}

func TestMaterializeViewer(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "App.html")
	err := Materialize(platform.Web, dst, ViewerData{Title: "App", Script: "app.js"})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(got)
	for _, want := range []string{"<title>App</title>", `<canvas id="app"`, `src="app.js"`} {
		if !strings.Contains(doc, want) {
			t.Errorf("viewer document lacks %q", want)
		}
	}
}

func TestMaterializeViewerWithoutScript(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "App.html")
	if err := Materialize(platform.Web, dst, ViewerData{Title: "App"}); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	got, _ := os.ReadFile(dst)
	if strings.Contains(string(got), "<script src=") {
		t.Error("viewer references a script although none was given")
	}
}
