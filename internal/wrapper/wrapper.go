package wrapper

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path"

	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/platform"
)

//go:embed native
var payloads embed.FS

const stage = "wrapper"

var payloadFiles = map[platform.Target]string{
	platform.DesktopMacOS:    "macos.m",
	platform.MobileIOS:       "ios.m",
	platform.MobileAndroid:   "android.c",
	platform.DesktopLinuxX11: "x11.c",
	platform.DesktopWindows:  "win32.c",
	platform.Web:             "viewer.html.tmpl",
}

var viewer = template.Must(template.ParseFS(payloads, "native/viewer.html.tmpl"))

// ViewerData fills the web viewer document.
type ViewerData struct {
	Title string
	// Script is the loader emitted by the upstream compiler, relative to the document.
	Script string
}

// SourceName returns the file name the payload is written under.
func SourceName(t platform.Target) string {
	switch {
	case t == platform.Web:
		return ""
	case t.Apple():
		return "wrapper.m"
	default:
		return "wrapper.c"
	}
}

// Payload returns the embedded source for t.
func Payload(t platform.Target) ([]byte, error) {
	name, ok := payloadFiles[t]
	if !ok {
		return nil, failure.Newf(failure.WriteError, stage, "no wrapper payload for target %s", t)
	}
	return payloads.ReadFile(path.Join("native", name))
}

// Materialize writes the payload for t to dst, replacing any existing file.
// The parent directory must already exist. For the web target the viewer
// document is rendered with data.
func Materialize(t platform.Target, dst string, data ViewerData) error {
	content, err := render(t, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, content, 0644); err != nil {
		return failure.New(failure.WriteError, stage, err)
	}
	return nil
}

func render(t platform.Target, data ViewerData) ([]byte, error) {
	if t != platform.Web {
		return Payload(t)
	}
	var buf bytes.Buffer
	if err := viewer.Execute(&buf, data); err != nil {
		return nil, failure.New(failure.WriteError, stage, err)
	}
	return buf.Bytes(), nil
}
