package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"

	"github.com/appwrap/appwrap/internal/config"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/manifest"
	"github.com/appwrap/appwrap/internal/pipeline"
	"github.com/appwrap/appwrap/internal/platform"
	"github.com/appwrap/appwrap/internal/toolchain"
)

func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	viper.Reset()
	t.Cleanup(viper.Reset)
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestPipelineOptionsFlagsOverConfig(t *testing.T) {
	isolate(t)
	t.Setenv("APPWRAP_TARGET", "web")
	t.Setenv("APPWRAP_SIGN_IDENTITY", "Team")
	t.Setenv("APPWRAP_UPSTREAM_COMMAND", "cargo rustc --lib")
	config.Load()

	opts := pipelineOptions(&buildFlags{}, false)
	if opts.Target != "web" || opts.SignIdentity != "Team" || opts.Upstream != "cargo rustc --lib" {
		t.Errorf("config not applied: %+v", opts)
	}
	if opts.Mode != platform.ModeDebug || opts.Run {
		t.Errorf("mode = %v run = %v", opts.Mode, opts.Run)
	}

	opts = pipelineOptions(&buildFlags{target: "mobile-ios", release: true, signIdentity: "-", simulator: "iPad"}, true)
	if opts.Target != "mobile-ios" || opts.SignIdentity != "-" || opts.Simulator != "iPad" {
		t.Errorf("flags did not win: %+v", opts)
	}
	if opts.Mode != platform.ModeRelease || !opts.Run {
		t.Errorf("mode = %v run = %v", opts.Mode, opts.Run)
	}
}

func TestStageReporter(t *testing.T) {
	isolate(t)
	var buf bytes.Buffer
	report := stageReporter(&buf)
	report(pipeline.StateIdle, pipeline.StateToolchainResolved)
	report(pipeline.StateToolchainResolved, pipeline.StateAborted)

	want := "  ✓ toolchain-resolved\naborted after toolchain-resolved\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrintError(t *testing.T) {
	isolate(t)
	var buf bytes.Buffer
	PrintError(&buf, failure.Newf(failure.SigningFailed, "sign", "no identity"))
	if got := buf.String(); !strings.HasPrefix(got, "error [sign]: ") || !strings.Contains(got, "no identity") {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	PrintError(&buf, errors.New("plain"))
	if got := buf.String(); got != "error: plain\n" {
		t.Errorf("output = %q", got)
	}
}

func TestTargetEntries(t *testing.T) {
	entries := targetEntries()
	if len(entries) != len(platform.Targets) {
		t.Fatalf("got %d entries, want %d", len(entries), len(platform.Targets))
	}
	byName := map[string]targetEntry{}
	for _, e := range entries {
		byName[e.Target] = e
	}
	ios := byName["mobile-ios"]
	if !ios.Signed || ios.Executable != filepath.Join("App.app", "App") || !strings.HasPrefix(ios.Launch, "simulator") {
		t.Errorf("ios entry = %+v", ios)
	}
	if web := byName["web"]; web.Signed || web.Launch != "none" || web.Triple != "wasm32-unknown-emscripten" {
		t.Errorf("web entry = %+v", web)
	}
}

func TestCheckTargetAndroidWithoutNDK(t *testing.T) {
	var buf bytes.Buffer
	if missing := checkTarget(&buf, platform.MobileAndroid, toolchain.Env{}); missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}
	if !strings.Contains(buf.String(), "[MISS] ANDROID_NDK_HOME is not set") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	ndk := t.TempDir()
	if missing := checkTarget(&buf, platform.MobileAndroid, toolchain.Env{toolchain.EnvNDKHome: ndk}); missing != 0 {
		t.Errorf("missing = %d with NDK set", missing)
	}
}

func TestRunDescriptorCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Info.plist")
	id, err := manifest.NewIdentity("App", "io.appwrap.App", "", "")
	if err != nil {
		t.Fatal(err)
	}
	w := &manifest.Writer{Editor: &manifest.Native{}}
	if err := w.Write(context.Background(), path, manifest.ForTarget(platform.DesktopMacOS, id)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := runDescriptorCheck(&buf, path); err != nil {
		t.Fatalf("runDescriptorCheck: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "[ OK ]") {
		t.Errorf("output = %q", buf.String())
	}

	if err := runDescriptorCheck(&buf, filepath.Join(t.TempDir(), "missing.plist")); err == nil {
		t.Error("expected error for a missing descriptor")
	}
}

func TestExecuteArgs(t *testing.T) {
	isolate(t)
	buildVersion = "1.2.3"

	var out, errOut bytes.Buffer
	if err := ExecuteArgs([]string{"version", "--short"}, &out, &errOut); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := out.String(); got != "1.2.3\n" {
		t.Errorf("version output = %q", got)
	}

	out.Reset()
	if err := ExecuteArgs([]string{"targets"}, &out, &errOut); err != nil {
		t.Fatalf("targets: %v", err)
	}
	for _, name := range []string{"TARGET", "desktop-macos", "mobile-android", "x86_64-pc-windows-msvc"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("targets output missing %q:\n%s", name, out.String())
		}
	}

	if err := ExecuteArgs([]string{"config", "set", "mirror", "x"}, &out, &errOut); err == nil {
		t.Error("config set accepted an unknown key")
	}
}
