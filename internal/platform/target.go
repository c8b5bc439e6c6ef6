package platform

import (
	"fmt"
	"strings"

	"github.com/appwrap/appwrap/internal/failure"
)

// Target identifies the platform family a bundle is assembled for.
type Target int

const (
	TargetUnknown Target = iota
	DesktopMacOS
	DesktopWindows
	DesktopLinuxX11
	MobileIOS
	MobileAndroid
	Web
)

// Targets lists every supported target.
var Targets = []Target{
	DesktopMacOS,
	DesktopWindows,
	DesktopLinuxX11,
	MobileIOS,
	MobileAndroid,
	Web,
}

var targetNames = map[Target]string{
	DesktopMacOS:    "desktop-macos",
	DesktopWindows:  "desktop-windows",
	DesktopLinuxX11: "desktop-linux-x11",
	MobileIOS:       "mobile-ios",
	MobileAndroid:   "mobile-android",
	Web:             "web",
}

// canonicalTriples is used when a target is selected by name instead of triple.
var canonicalTriples = map[Target]string{
	DesktopMacOS:    "x86_64-apple-darwin",
	DesktopWindows:  "x86_64-pc-windows-msvc",
	DesktopLinuxX11: "x86_64-unknown-linux-gnu",
	MobileIOS:       "aarch64-apple-ios",
	MobileAndroid:   "aarch64-linux-android",
	Web:             "wasm32-unknown-emscripten",
}

func (t Target) String() string {
	if name, ok := targetNames[t]; ok {
		return name
	}
	return "unknown"
}

// Apple reports whether the target produces an .app bundle.
func (t Target) Apple() bool {
	return t == DesktopMacOS || t == MobileIOS
}

// Signs reports whether release builds of the target are code-signed.
func (t Target) Signs() bool {
	return t.Apple()
}

// CanonicalTriple returns the triple assumed when the target is named directly.
func (t Target) CanonicalTriple() string {
	return canonicalTriples[t]
}

// FromTriple maps a target triple onto its platform family.
func FromTriple(triple string) Target {
	switch {
	case strings.HasSuffix(triple, "-darwin"):
		return DesktopMacOS
	case strings.HasSuffix(triple, "-ios"), strings.HasSuffix(triple, "-ios-sim"):
		return MobileIOS
	case strings.Contains(triple, "linux-android"):
		return MobileAndroid
	case strings.HasSuffix(triple, "-linux-gnu"):
		return DesktopLinuxX11
	case strings.HasSuffix(triple, "-windows-msvc"):
		return DesktopWindows
	case strings.HasSuffix(triple, "-emscripten"), strings.HasPrefix(triple, "wasm32-"):
		return Web
	default:
		return TargetUnknown
	}
}

// Resolve accepts either a target name ("mobile-ios") or a triple
// ("aarch64-apple-ios") and returns the target with the triple to build for.
func Resolve(s string) (Target, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TargetUnknown, "", failure.Newf(failure.ToolchainAmbiguous, "resolve", "no target given")
	}
	for t, name := range targetNames {
		if s == name {
			return t, t.CanonicalTriple(), nil
		}
	}
	if t := FromTriple(s); t != TargetUnknown {
		return t, s, nil
	}
	return TargetUnknown, "", failure.Newf(failure.ToolchainAmbiguous, "resolve",
		"target %q does not map to any supported platform", s)
}

// IsSimulatorTriple reports whether an iOS triple names a simulator build.
func IsSimulatorTriple(triple string) bool {
	return strings.HasSuffix(triple, "-ios-sim") || strings.HasPrefix(triple, "x86_64-apple-ios")
}

// TripleFromToolchain extracts the host triple from a rustup toolchain name
// such as "stable-x86_64-unknown-linux-gnu".
func TripleFromToolchain(toolchain string) string {
	_, triple, found := strings.Cut(toolchain, "-")
	if !found {
		return ""
	}
	return triple
}

// Mode is the build mode.
type Mode int

const (
	ModeDebug Mode = iota
	ModeRelease
)

func (m Mode) String() string {
	if m == ModeRelease {
		return "release"
	}
	return "debug"
}

// ParseMode parses "debug" or "release".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "debug":
		return ModeDebug, nil
	case "release":
		return ModeRelease, nil
	default:
		return ModeDebug, fmt.Errorf("unknown build mode %q: expected debug or release", s)
	}
}
