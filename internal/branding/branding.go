// Package branding provides compile-time identity values for the CLI and
// for the bundles it produces.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. The application name and bundle namespace are
// deliberately not configurable at runtime: every bundle identifier is
// derived from them.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName         string `yaml:"cli_name"`
	DisplayName     string `yaml:"display_name"`
	Description     string `yaml:"description"`
	HomeDir         string `yaml:"home_dir"`
	EnvPrefix       string `yaml:"env_prefix"`
	GoModule        string `yaml:"go_module"`
	AppName         string `yaml:"app_name"`
	BundleNamespace string `yaml:"bundle_namespace"`
	SignIdentity    string `yaml:"sign_identity"`
	Simulator       string `yaml:"simulator"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:         "appwrap",
			DisplayName:     "AppWrap",
			Description:     "Package compiled artifacts into platform-native application bundles",
			HomeDir:         ".appwrap",
			EnvPrefix:       "APPWRAP",
			GoModule:        "github.com/appwrap/appwrap",
			AppName:         "App",
			BundleNamespace: "io.appwrap",
			SignIdentity:    "-",
			Simulator:       "iPhone SE (2nd generation)",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "appwrap").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".appwrap").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "APPWRAP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// AppName returns the fixed application name used for executables, bundle
// directories and descriptor fields (e.g., "App").
func AppName() string { load(); return defaults.AppName }

// BundleNamespace returns the reverse-DNS prefix of every bundle identifier.
func BundleNamespace() string { load(); return defaults.BundleNamespace }

// BundleID returns "<namespace>.<app-name>".
func BundleID() string {
	load()
	return defaults.BundleNamespace + "." + defaults.AppName
}

// SignIdentity returns the codesign identity used when none is configured.
// "-" requests an ad-hoc signature.
func SignIdentity() string { load(); return defaults.SignIdentity }

// Simulator returns the default iOS simulator device name.
func Simulator() string { load(); return defaults.Simulator }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("cc") → "APPWRAP_CC".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
