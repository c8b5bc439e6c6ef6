package platform

import (
	"os"
	"runtime"

	"github.com/appwrap/appwrap/internal/failure"
)

// HostOS is the operating system the tool runs on.
var HostOS = runtime.GOOS

// hostTags names the prebuilt NDK toolchain directory for each host.
var hostTags = map[string]string{
	"darwin":  "darwin-x86_64",
	"linux":   "linux-x86_64",
	"windows": "windows-x86_64",
}

// HostTag returns the NDK prebuilt directory name for the given host OS.
func HostTag(goos string) (string, error) {
	tag, ok := hostTags[goos]
	if !ok {
		return "", failure.Newf(failure.ToolchainUnresolved, "toolchain",
			"no prebuilt NDK toolchain for host %s", goos)
	}
	return tag, nil
}

// ExeSuffix returns the executable suffix on the given target.
func ExeSuffix(t Target) string {
	if t == DesktopWindows {
		return ".exe"
	}
	return ""
}

// Chmod applies mode to path. Windows has no Unix permission bits, so the
// call is skipped there and copied executables rely on their .exe suffix.
func Chmod(path string, mode os.FileMode) error {
	if HostOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
