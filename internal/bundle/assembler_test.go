package bundle

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/appwrap/appwrap/internal/execx/execxtest"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/platform"
	"github.com/appwrap/appwrap/internal/toolchain"
)

func TestPrepareIsIdempotent(t *testing.T) {
	l := NewLayout(platform.DesktopMacOS, filepath.Join(t.TempDir(), "out"), "App")
	a := &Assembler{}

	for i := 0; i < 2; i++ {
		if err := a.Prepare(l); err != nil {
			t.Fatalf("Prepare #%d: %v", i+1, err)
		}
	}
	for _, dir := range l.Dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("%s was not created: %v", dir, err)
		}
	}
}

func TestPrepareFailsOnFile(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "out")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	l := NewLayout(platform.MobileIOS, blocker, "App")

	err := (&Assembler{}).Prepare(l)
	if failure.KindOf(err) != failure.AssemblyFailed {
		t.Fatalf("err = %v, want AssemblyFailed", err)
	}
}

func TestCompile(t *testing.T) {
	l := NewLayout(platform.DesktopLinuxX11, "/out", "App")
	spec := &toolchain.Spec{Compiler: "cc", Leading: []string{"-Wall"}, Trailing: []string{"-lX11"}}
	rec := &execxtest.Recorder{}

	if err := (&Assembler{Runner: rec}).Compile(context.Background(), l, spec); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "cc -Wall " + l.Wrapper + " -o " + l.Executable + " -lX11"
	if lines := rec.Lines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("commands = %q, want [%q]", lines, want)
	}
	if rec.Commands[0].Dir != "/out" {
		t.Errorf("Dir = %q, want output root", rec.Commands[0].Dir)
	}
}

func TestCompileEmptySpec(t *testing.T) {
	rec := &execxtest.Recorder{}
	l := NewLayout(platform.Web, "/out", "App")
	if err := (&Assembler{Runner: rec}).Compile(context.Background(), l, &toolchain.Spec{}); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(rec.Commands) != 0 {
		t.Errorf("ran %q for an empty spec", rec.Lines())
	}
}

func TestCompileFailure(t *testing.T) {
	rec := (&execxtest.Recorder{}).Fail("cc", 1, "wrapper.c:1: error: expected ';'")
	l := NewLayout(platform.DesktopLinuxX11, "/out", "App")

	err := (&Assembler{Runner: rec}).Compile(context.Background(), l, &toolchain.Spec{Compiler: "cc"})
	if failure.KindOf(err) != failure.CompileFailed {
		t.Fatalf("err = %v, want CompileFailed", err)
	}
	if !strings.Contains(err.Error(), "expected ';'") {
		t.Errorf("error %q does not carry the compiler output", err)
	}
}

func TestPlace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "libgame.a")
	if err := os.WriteFile(src, []byte("archive"), 0644); err != nil {
		t.Fatal(err)
	}
	l := NewLayout(platform.DesktopMacOS, filepath.Join(dir, "out"), "App")
	a := &Assembler{}
	if err := a.Prepare(l); err != nil {
		t.Fatal(err)
	}

	placed, err := a.Place(l, src)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	want := filepath.Join(l.ArtifactDir, "libgame.a")
	if len(placed) != 1 || placed[0] != want {
		t.Fatalf("placed = %v, want [%s]", placed, want)
	}
	data, err := os.ReadFile(want)
	if err != nil || string(data) != "archive" {
		t.Errorf("copied content = %q, %v", data, err)
	}
	if runtime.GOOS != "windows" {
		info, _ := os.Stat(want)
		if info.Mode().Perm()&0100 == 0 {
			t.Errorf("artifact mode = %v, want executable", info.Mode())
		}
	}
}

func TestPlaceMissingArtifact(t *testing.T) {
	l := NewLayout(platform.DesktopLinuxX11, t.TempDir(), "App")
	_, err := (&Assembler{}).Place(l, filepath.Join(t.TempDir(), "missing.so"))
	if failure.KindOf(err) != failure.AssemblyFailed {
		t.Fatalf("err = %v, want AssemblyFailed", err)
	}
}

func TestPlaceArtifactAlreadyInPlace(t *testing.T) {
	out := t.TempDir()
	l := NewLayout(platform.DesktopLinuxX11, out, "App")
	a := &Assembler{}
	if err := a.Prepare(l); err != nil {
		t.Fatal(err)
	}
	art := filepath.Join(out, "libapp.so")
	if err := os.WriteFile(art, []byte("0123456789"), 0644); err != nil {
		t.Fatal(err)
	}

	placed, err := a.Place(l, art)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(placed) != 1 || placed[0] != art {
		t.Errorf("placed = %v, want [%s]", placed, art)
	}
	data, err := os.ReadFile(art)
	if err != nil || string(data) != "0123456789" {
		t.Errorf("artifact content = %q, %v", data, err)
	}
	if runtime.GOOS != "windows" {
		info, _ := os.Stat(art)
		if info.Mode().Perm()&0100 == 0 {
			t.Errorf("artifact mode = %v, want executable", info.Mode())
		}
	}
}
