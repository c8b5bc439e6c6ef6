// Package manifest builds and writes bundle descriptors (Info.plist).
//
// A Descriptor is an ordered list of key/value assertions. The Writer
// removes any previous descriptor and applies the assertions one at a time
// through an Editor: PlistBuddy on macOS hosts, or an in-process editor
// elsewhere. The first assertion for a key adds it and later ones set it,
// so the last assertion for a key is what ends up in the file. Descriptors
// are checked against an embedded JSON schema before anything is written.
package manifest
