// Package toolchain resolves the compiler and flags needed to build the
// wrapper executable for a target. Resolution reads an explicit environment
// snapshot rather than the process environment, and the only process it may
// spawn is the Xcode SDK locator for iOS builds.
package toolchain
