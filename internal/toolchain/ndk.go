package toolchain

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/appwrap/appwrap/internal/failure"
)

// MinNDKVersion is the first NDK release that ships per-API clang wrappers
// such as aarch64-linux-android30-clang.
const MinNDKVersion = ">= 19"

// NDKVersion reads Pkg.Revision from <ndk>/source.properties.
func NDKVersion(ndk string) (*semver.Version, error) {
	path := filepath.Join(ndk, "source.properties")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || strings.TrimSpace(key) != "Pkg.Revision" {
			continue
		}
		v, err := semver.NewVersion(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("parsing NDK revision in %s: %w", path, err)
		}
		return v, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("no Pkg.Revision in %s", path)
}

// CheckNDK returns the NDK version, failing with ToolchainUnresolved when it
// is older than MinNDKVersion. Beta and canary builds are judged by their
// release number.
func CheckNDK(ndk string) (*semver.Version, error) {
	v, err := NDKVersion(ndk)
	if err != nil {
		return nil, err
	}
	release, err := v.SetPrerelease("")
	if err != nil {
		return nil, err
	}
	c, err := semver.NewConstraint(MinNDKVersion)
	if err != nil {
		return nil, err
	}
	if !c.Check(&release) {
		return v, failure.Newf(failure.ToolchainUnresolved, stage,
			"NDK %s at %s is too old: need %s", v, ndk, MinNDKVersion)
	}
	return v, nil
}
