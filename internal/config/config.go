package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/appwrap/appwrap/internal/branding"
	"github.com/appwrap/appwrap/internal/toolchain"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized keys.
const (
	KeyTarget          = "target"
	KeySimulator       = "simulator"
	KeySignIdentity    = "sign_identity"
	KeyOutDir          = "out_dir"
	KeyCompiler        = "compiler"
	KeyPlistEditor     = "plist_editor"
	KeyAppVersion      = "app_version"
	KeyUpstreamCommand = "upstream.command"
)

var defaults = map[string]string{
	KeyTarget:          "",
	KeySimulator:       branding.Simulator(),
	KeySignIdentity:    branding.SignIdentity(),
	KeyOutDir:          "",
	KeyCompiler:        "",
	KeyPlistEditor:     "auto",
	KeyAppVersion:      "1.0.0",
	KeyUpstreamCommand: "",
}

// Keys returns every recognized key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKey reports whether key is recognized.
func IsKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Dir returns the path to the config directory (~/.appwrap/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.appwrap/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Env snapshots the environment variables read during toolchain resolution.
func Env() toolchain.Env {
	env := toolchain.Env{}
	for _, key := range []string{toolchain.EnvNDKHome, toolchain.EnvRustupToolchain, toolchain.EnvCompiler} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env
}
