// Package wrapper materializes the embedded native entry-point sources.
// Each target has one payload (an Objective-C or C file that opens a window
// and hands control to the packaged code) which is written verbatim next to
// the bundle so the toolchain can compile it. The web target has no native
// entry point; it gets a viewer document rendered from a template instead.
package wrapper
