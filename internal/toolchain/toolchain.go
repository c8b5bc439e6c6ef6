package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/platform"
)

// Recognized environment variables.
const (
	EnvNDKHome         = "ANDROID_NDK_HOME"
	EnvRustupToolchain = "RUSTUP_TOOLCHAIN"
	EnvCompiler        = "APPWRAP_CC"
)

// AndroidAPILevel is appended to the NDK compiler triple.
const AndroidAPILevel = 30

const stage = "toolchain"

// Env is a snapshot of the environment variables the locator reads.
type Env map[string]string

// Lookup returns the value of key and whether it is set and non-empty.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok && v != ""
}

// OutputStyle selects how the output path is passed to the compiler.
type OutputStyle int

const (
	// OutputDash passes "-o <path>".
	OutputDash OutputStyle = iota
	// OutputMSVC passes "/link /out:<path>".
	OutputMSVC
)

// Spec is a resolved compiler invocation.
type Spec struct {
	Compiler string
	// Leading flags precede the source file.
	Leading []string
	// Trailing flags follow the output path.
	Trailing []string
	Output   OutputStyle
	// LinkerEnv holds variables for the upstream build, e.g. the NDK linker.
	LinkerEnv map[string]string
}

// Empty reports whether nothing needs compiling.
func (s *Spec) Empty() bool {
	return s == nil || s.Compiler == ""
}

// Command builds the compiler invocation for src producing out.
func (s *Spec) Command(src, out string) execx.Command {
	args := append([]string{}, s.Leading...)
	args = append(args, src)
	switch s.Output {
	case OutputMSVC:
		args = append(args, "/link", "/out:"+out)
	default:
		args = append(args, "-o", out)
	}
	args = append(args, s.Trailing...)
	return execx.Command{Name: s.Compiler, Args: args, Stream: true}
}

// LinkerEnvList renders LinkerEnv as KEY=VALUE entries in a stable order.
func (s *Spec) LinkerEnvList() []string {
	if s == nil {
		return nil
	}
	var env []string
	for k, v := range s.LinkerEnv {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// Request describes what to resolve.
type Request struct {
	Target platform.Target
	Triple string
	Mode   platform.Mode
	// Simulator selects the iOS simulator SDK instead of the device SDK.
	Simulator bool
	// Compiler overrides the desktop compiler.
	Compiler string
}

// Locator resolves toolchain specs.
type Locator struct {
	Runner execx.Runner
	Env    Env
	HostOS string
}

// Resolve returns the compiler spec for req.
func (l *Locator) Resolve(ctx context.Context, req Request) (*Spec, error) {
	switch req.Target {
	case platform.DesktopMacOS:
		return l.macOS(req), nil
	case platform.MobileIOS:
		return l.iOS(ctx, req)
	case platform.MobileAndroid:
		return l.android(req)
	case platform.DesktopLinuxX11:
		return l.linux(req), nil
	case platform.DesktopWindows:
		return l.windows(req), nil
	case platform.Web:
		return &Spec{}, nil
	default:
		return nil, failure.Newf(failure.ToolchainAmbiguous, stage,
			"target %q does not map to any supported platform", req.Triple)
	}
}

func (l *Locator) compiler(req Request, def string) string {
	if req.Compiler != "" {
		return req.Compiler
	}
	if cc, ok := l.Env.Lookup(EnvCompiler); ok {
		return cc
	}
	return def
}

func appleFlags(mode platform.Mode) []string {
	flags := []string{"-Wall", "-fmodules", "-Wno-deprecated-declarations"}
	if mode == platform.ModeDebug {
		flags = append(flags, "-fsanitize=undefined")
	} else {
		flags = append(flags, "-O3")
	}
	return flags
}

func (l *Locator) macOS(req Request) *Spec {
	leading := appleFlags(req.Mode)
	leading = append(leading, "-mmacosx-version-min=10.10")
	return &Spec{Compiler: l.compiler(req, "clang"), Leading: leading}
}

// SDKName returns the xcrun SDK name for an iOS build.
func SDKName(simulator bool) string {
	if simulator {
		return "iphonesimulator"
	}
	return "iphoneos"
}

func (l *Locator) iOS(ctx context.Context, req Request) (*Spec, error) {
	sdk, err := l.sdkPath(ctx, SDKName(req.Simulator))
	if err != nil {
		return nil, err
	}
	trailing := appleFlags(req.Mode)[1:]
	trailing = append(trailing, "-fembed-bitcode", "-isysroot", sdk)
	if req.Simulator {
		trailing = append(trailing, "--target=x86_64-apple-ios13.0-simulator")
	} else {
		trailing = append(trailing, "--target=arm64-apple-ios")
	}
	return &Spec{
		Compiler: "clang",
		Leading:  []string{"-Wall"},
		Trailing: trailing,
	}, nil
}

func (l *Locator) sdkPath(ctx context.Context, sdk string) (string, error) {
	if l.Runner == nil {
		return "", failure.Newf(failure.ToolchainQueryFailed, stage, "no runner to query the %s SDK", sdk)
	}
	out, err := l.Runner.Run(ctx, execx.Command{
		Name: "xcrun",
		Args: []string{"--show-sdk-path", "--sdk", sdk},
	})
	if err != nil {
		return "", failure.New(failure.ToolchainQueryFailed, stage, err)
	}
	path := strings.TrimSpace(out.Stdout)
	if path == "" {
		return "", failure.Newf(failure.ToolchainQueryFailed, stage, "xcrun returned an empty SDK path for %s", sdk)
	}
	return path, nil
}

// abiRemap maps legacy 32-bit ARM spellings onto the NDK compiler prefix.
var abiRemap = map[string]string{
	"armv7-linux-androideabi": "armv7a-linux-androideabi",
	"arm-linux-androideabi":   "armv7a-linux-androideabi",
}

// NDKTriple returns the NDK compiler triple for a target triple.
func NDKTriple(triple string) string {
	if mapped, ok := abiRemap[triple]; ok {
		return mapped
	}
	return triple
}

// LinkerEnvVar returns the cargo linker variable for triple, e.g.
// CARGO_TARGET_AARCH64_LINUX_ANDROID_LINKER.
func LinkerEnvVar(triple string) string {
	return "CARGO_TARGET_" + strings.ToUpper(strings.ReplaceAll(triple, "-", "_")) + "_LINKER"
}

func (l *Locator) android(req Request) (*Spec, error) {
	ndk, ok := l.Env.Lookup(EnvNDKHome)
	if !ok {
		return nil, failure.Newf(failure.ToolchainUnresolved, stage,
			"%s must point at an Android NDK to build for %s", EnvNDKHome, req.Triple)
	}
	// An unreadable source.properties is left for the compiler to report.
	if _, err := CheckNDK(ndk); failure.KindOf(err) != nil {
		return nil, err
	}
	hostTag, err := platform.HostTag(l.HostOS)
	if err != nil {
		return nil, err
	}
	clang := filepath.Join(ndk, "toolchains", "llvm", "prebuilt", hostTag, "bin",
		fmt.Sprintf("%s%d-clang", NDKTriple(req.Triple), AndroidAPILevel))
	glue := "-I" + filepath.Join(ndk, "sources", "android", "native_app_glue")

	leading := []string{"-Wall"}
	if req.Mode == platform.ModeRelease {
		leading = append(leading, "-O3")
	}
	return &Spec{
		Compiler:  clang,
		Leading:   leading,
		Trailing:  []string{"-c", glue},
		LinkerEnv: map[string]string{LinkerEnvVar(req.Triple): clang},
	}, nil
}

// X11Libs are the libraries the X11 wrapper links against.
var X11Libs = []string{"-lX11", "-lEGL", "-lGL", "-lasound"}

func (l *Locator) linux(req Request) *Spec {
	leading := []string{"-Wall"}
	if req.Mode == platform.ModeRelease {
		leading = append(leading, "-O3", "-Wl,-s")
	}
	return &Spec{
		Compiler: l.compiler(req, "cc"),
		Leading:  leading,
		Trailing: append([]string{}, X11Libs...),
	}
}

// Win32Libs are the system libraries the Win32 wrapper links against.
var Win32Libs = []string{"user32.lib", "d3d11.lib", "dxguid.lib", "dsound.lib", "xinput.lib"}

func (l *Locator) windows(req Request) *Spec {
	leading := []string{"-Wall"}
	if req.Mode == platform.ModeRelease {
		leading = append(leading, "/O2")
	}
	return &Spec{
		Compiler: l.compiler(req, "cl.exe"),
		Leading:  leading,
		Trailing: append([]string{}, Win32Libs...),
		Output:   OutputMSVC,
	}
}
