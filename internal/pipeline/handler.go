package pipeline

import (
	"github.com/appwrap/appwrap/internal/manifest"
	"github.com/appwrap/appwrap/internal/platform"
)

// Handler captures what differs between targets.
type Handler struct {
	Target platform.Target
	// Descriptor reports whether the bundle carries an Info.plist.
	Descriptor bool
	// Sign reports whether release builds are code signed.
	Sign bool
	// Tools lists the host programs a full run may invoke. The Android
	// compiler lives inside the NDK and is not listed.
	Tools []string
}

var handlers = map[platform.Target]Handler{
	platform.DesktopMacOS: {
		Target:     platform.DesktopMacOS,
		Descriptor: true,
		Sign:       true,
		Tools:      []string{"clang", "codesign", "open"},
	},
	platform.MobileIOS: {
		Target:     platform.MobileIOS,
		Descriptor: true,
		Sign:       true,
		Tools:      []string{"xcrun", "clang", "codesign"},
	},
	platform.DesktopLinuxX11: {
		Target: platform.DesktopLinuxX11,
		Tools:  []string{"cc"},
	},
	platform.DesktopWindows: {
		Target: platform.DesktopWindows,
		Tools:  []string{"cl.exe"},
	},
	platform.MobileAndroid: {Target: platform.MobileAndroid},
	platform.Web:           {Target: platform.Web},
}

// HandlerFor returns the handler of t.
func HandlerFor(t platform.Target) (Handler, bool) {
	h, ok := handlers[t]
	return h, ok
}

// PlistEditorTools lists the programs the given editor kind needs.
func PlistEditorTools(kind string) []string {
	if kind == manifest.EditorPlistBuddy {
		return []string{manifest.PlistBuddyPath}
	}
	return nil
}
