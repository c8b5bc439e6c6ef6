// Package platform models the closed set of packaging targets and build
// modes, maps target triples onto them, and wraps the few filesystem calls
// whose behavior differs between host operating systems.
package platform
