package deploy

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/appwrap/appwrap/internal/bundle"
	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/platform"
)

const stage = "deploy"

// Kind classifies where a bundle runs.
type Kind int

const (
	KindNone Kind = iota
	KindSession
	KindSimulator
)

// Target is the place a bundle is launched.
type Target struct {
	Kind Kind
	// Simulator is the device name for KindSimulator.
	Simulator string
}

func (t Target) String() string {
	switch t.Kind {
	case KindSession:
		return "local session"
	case KindSimulator:
		return fmt.Sprintf("simulator %q", t.Simulator)
	default:
		return "none"
	}
}

// TargetFor returns the deployment target of platform t.
func TargetFor(t platform.Target, simulator string) Target {
	switch t {
	case platform.DesktopMacOS, platform.DesktopLinuxX11, platform.DesktopWindows:
		return Target{Kind: KindSession}
	case platform.MobileIOS:
		return Target{Kind: KindSimulator, Simulator: simulator}
	default:
		return Target{Kind: KindNone}
	}
}

// Launcher deploys and starts a bundle.
type Launcher interface {
	Launch(ctx context.Context, l *bundle.Layout) error
}

// Config carries what launchers need.
type Config struct {
	Runner    execx.Runner
	Log       *logrus.Entry
	Simulator string
	BundleID  string
}

// For returns the launcher for t.
func For(t platform.Target, cfg Config) Launcher {
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	switch t {
	case platform.DesktopMacOS:
		return &Open{Runner: cfg.Runner}
	case platform.DesktopLinuxX11, platform.DesktopWindows:
		return &Exec{Runner: cfg.Runner}
	case platform.MobileIOS:
		return &Simulator{Runner: cfg.Runner, Device: cfg.Simulator, BundleID: cfg.BundleID, Log: log}
	default:
		return &Noop{Target: t, Log: log}
	}
}

// Open hands the bundle to the macOS launch services.
type Open struct {
	Runner execx.Runner
}

// Launch implements Launcher.
func (o *Open) Launch(ctx context.Context, l *bundle.Layout) error {
	if _, err := o.Runner.Run(ctx, execx.Command{Name: "open", Args: []string{l.Bundle}}); err != nil {
		return failure.New(failure.DeployFailed, stage, errors.Wrap(err, "open"))
	}
	return nil
}

// Exec runs the executable in the foreground and waits for it to exit.
type Exec struct {
	Runner execx.Runner
}

// Launch implements Launcher.
func (e *Exec) Launch(ctx context.Context, l *bundle.Layout) error {
	_, err := e.Runner.Run(ctx, execx.Command{Name: l.Executable, Dir: l.Root, Stream: true})
	if err != nil {
		return failure.New(failure.DeployFailed, stage, errors.Wrap(err, "exec"))
	}
	return nil
}

// Simulator installs and launches a bundle on an iOS simulator.
type Simulator struct {
	Runner   execx.Runner
	Device   string
	BundleID string
	Log      *logrus.Entry
}

// Launch boots the device, then installs and launches the bundle. A boot
// failure is logged and ignored since the device is usually already booted.
func (s *Simulator) Launch(ctx context.Context, l *bundle.Layout) error {
	if _, err := s.simctl(ctx, "boot", s.Device); err != nil {
		s.Log.WithError(err).WithField("device", s.Device).Debug("simctl boot failed; continuing")
	}
	if _, err := s.simctl(ctx, "install", s.Device, l.Bundle); err != nil {
		return failure.New(failure.DeployFailed, stage, errors.Wrap(err, "install"))
	}
	if _, err := s.simctl(ctx, "launch", s.Device, s.BundleID); err != nil {
		return failure.New(failure.DeployFailed, stage, errors.Wrap(err, "launch"))
	}
	return nil
}

func (s *Simulator) simctl(ctx context.Context, args ...string) (*execx.Output, error) {
	return s.Runner.Run(ctx, execx.Command{
		Name: "xcrun",
		Args: append([]string{"simctl"}, args...),
	})
}

// Noop leaves deployment to the user.
type Noop struct {
	Target platform.Target
	Log    *logrus.Entry
}

// Launch implements Launcher.
func (n *Noop) Launch(_ context.Context, l *bundle.Layout) error {
	n.Log.WithField("target", n.Target.String()).Infof("no launcher for %s; output left in %s", n.Target, l.Root)
	return nil
}
