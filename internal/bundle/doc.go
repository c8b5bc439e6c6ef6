// Package bundle lays out platform-native application bundles on disk.
//
// A Layout names every path a run touches: the directories to create, the
// wrapper source the compiler reads, the executable it writes, and where the
// descriptor and any prebuilt artifacts go. The Assembler turns a Layout into
// files: it creates the directories, drives the compiler and copies the
// artifacts next to the executable.
package bundle
