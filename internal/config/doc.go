// Package config manages user-level settings stored at ~/.appwrap/config.yaml.
// Every key can be overridden by an APPWRAP_-prefixed environment variable
// ("upstream.command" becomes APPWRAP_UPSTREAM_COMMAND). The package also
// snapshots the toolchain environment variables so that toolchain
// resolution never reads process state directly.
package config
