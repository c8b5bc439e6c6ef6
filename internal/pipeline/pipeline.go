package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/appwrap/appwrap/internal/branding"
	"github.com/appwrap/appwrap/internal/bundle"
	"github.com/appwrap/appwrap/internal/deploy"
	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/manifest"
	"github.com/appwrap/appwrap/internal/platform"
	"github.com/appwrap/appwrap/internal/signer"
	"github.com/appwrap/appwrap/internal/toolchain"
	"github.com/appwrap/appwrap/internal/wrapper"
)

// Options configure one run.
type Options struct {
	// Target is a target name or triple. When empty the triple is taken
	// from RUSTUP_TOOLCHAIN.
	Target string
	Mode   platform.Mode
	// Run requests deployment after a successful build.
	Run bool
	// OutDir defaults to <WorkDir>/target/<triple>/<mode>. A relative
	// OutDir is taken relative to WorkDir.
	OutDir string
	// Artifacts are prebuilt files copied next to the executable.
	Artifacts    []string
	SignIdentity string
	Simulator    string
	Compiler     string
	AppVersion   string
	// Upstream is the prebuild command line, e.g. "cargo rustc --lib".
	Upstream string
	// WorkDir defaults to the process working directory.
	WorkDir string
}

// Result reports what a run reached.
type Result struct {
	RunID     uuid.UUID
	Target    platform.Target
	Triple    string
	Layout    *bundle.Layout
	States    []State
	Artifacts []string
	// BuildErr is set when the bundle could not be produced.
	BuildErr error
	// DeployErr is set when a good bundle failed to launch.
	DeployErr error
}

// Final returns the last state reached.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return StateIdle
	}
	return r.States[len(r.States)-1]
}

// Reached reports whether the run passed through s.
func (r *Result) Reached(s State) bool {
	for _, st := range r.States {
		if st == s {
			return true
		}
	}
	return false
}

// Err returns the build error, else the deploy error.
func (r *Result) Err() error {
	if r.BuildErr != nil {
		return r.BuildErr
	}
	return r.DeployErr
}

// Orchestrator runs the packaging pipeline. Collaborators left nil get
// defaults: the exec runner, the auto-selected plist editor and the
// standard logger.
type Orchestrator struct {
	Runner execx.Runner
	Editor manifest.Editor
	Env    toolchain.Env
	Log    *logrus.Entry
	HostOS string
	// OnTransition observes every state change.
	OnTransition func(from, to State)
}

type run struct {
	o      *Orchestrator
	opts   Options
	log    *logrus.Entry
	result *Result
}

func (r *run) enter(s State) {
	from := r.result.Final()
	r.result.States = append(r.result.States, s)
	r.log.WithFields(logrus.Fields{"from": from.String(), "to": s.String()}).Debug("state transition")
	if r.o.OnTransition != nil {
		r.o.OnTransition(from, s)
	}
}

func (r *run) abort(err error) *Result {
	r.result.BuildErr = err
	r.enter(StateAborted)
	return r.result
}

// Run executes the pipeline for opts. It never panics on tool failures:
// every error is reported through the returned Result.
func (o *Orchestrator) Run(ctx context.Context, opts Options) *Result {
	id := uuid.New()
	log := o.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("run_id", id.String())

	runner := o.Runner
	if runner == nil {
		runner = execx.NewExecRunner(log)
	}
	hostOS := o.HostOS
	if hostOS == "" {
		hostOS = platform.HostOS
	}

	r := &run{o: o, opts: opts, log: log, result: &Result{RunID: id, States: []State{StateIdle}}}

	target, triple, err := resolveTarget(opts.Target, o.Env)
	if err != nil {
		return r.abort(err)
	}
	r.result.Target, r.result.Triple = target, triple
	h, ok := HandlerFor(target)
	if !ok {
		return r.abort(failure.Newf(failure.ToolchainAmbiguous, "resolve", "no handler for target %s", target))
	}
	r.log = r.log.WithFields(logrus.Fields{"target": target.String(), "mode": opts.Mode.String()})

	identity, err := manifest.NewIdentity(branding.AppName(), branding.BundleID(), opts.AppVersion, "")
	if err != nil {
		return r.abort(failure.New(failure.ManifestWriteFailed, "manifest", err))
	}

	workDir := opts.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return r.abort(failure.New(failure.AssemblyFailed, "assemble", err))
		}
	}
	if workDir, err = filepath.Abs(workDir); err != nil {
		return r.abort(failure.New(failure.AssemblyFailed, "assemble", err))
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Join(workDir, "target", triple, opts.Mode.String())
	} else if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}
	layout := bundle.NewLayout(target, outDir, branding.AppName())
	r.result.Layout = layout

	locator := &toolchain.Locator{Runner: runner, Env: o.Env, HostOS: hostOS}
	spec, err := locator.Resolve(ctx, toolchain.Request{
		Target:    target,
		Triple:    triple,
		Mode:      opts.Mode,
		Simulator: opts.Run || platform.IsSimulatorTriple(triple),
		Compiler:  opts.Compiler,
	})
	if err != nil {
		return r.abort(err)
	}
	r.enter(StateToolchainResolved)

	if strings.TrimSpace(opts.Upstream) != "" {
		if err := prebuild(ctx, runner, opts, triple, workDir, spec); err != nil {
			return r.abort(err)
		}
	}

	assembler := &bundle.Assembler{Runner: runner, Log: r.log}
	if err := assembler.Prepare(layout); err != nil {
		return r.abort(err)
	}
	viewer := wrapper.ViewerData{Title: branding.AppName(), Script: loaderScript(opts.Artifacts)}
	if err := wrapper.Materialize(target, layout.Wrapper, viewer); err != nil {
		return r.abort(err)
	}
	r.enter(StateWrapperWritten)

	if err := assembler.Compile(ctx, layout, spec); err != nil {
		return r.abort(err)
	}
	r.enter(StateCompiled)

	placed, err := assembler.Place(layout, opts.Artifacts...)
	r.result.Artifacts = placed
	if err != nil {
		return r.abort(err)
	}
	if h.Descriptor {
		editor := o.Editor
		if editor == nil {
			if editor, err = manifest.NewEditor(manifest.EditorAuto, hostOS, runner); err != nil {
				return r.abort(failure.New(failure.ManifestWriteFailed, "manifest", err))
			}
		}
		w := &manifest.Writer{Editor: editor}
		if err := w.Write(ctx, layout.Descriptor, manifest.ForTarget(target, identity)); err != nil {
			return r.abort(err)
		}
	}
	r.enter(StateAssembled)

	if h.Sign && opts.Mode == platform.ModeRelease {
		signID := opts.SignIdentity
		if signID == "" {
			signID = branding.SignIdentity()
		}
		s := &signer.Signer{Runner: runner, Identity: signID}
		if err := s.Sign(ctx, layout.Bundle); err != nil {
			return r.abort(err)
		}
		r.enter(StateSigned)
	}

	if opts.Run {
		simulator := opts.Simulator
		if simulator == "" {
			simulator = branding.Simulator()
		}
		r.log.WithField("destination", deploy.TargetFor(target, simulator).String()).Info("deploying")
		launcher := deploy.For(target, deploy.Config{
			Runner:    runner,
			Log:       r.log,
			Simulator: simulator,
			BundleID:  identity.BundleID,
		})
		if err := launcher.Launch(ctx, layout); err != nil {
			r.result.DeployErr = err
			r.enter(StateAborted)
			return r.result
		}
		r.enter(StateDeployed)
	}

	r.enter(StateDone)
	return r.result
}

// resolveTarget picks the target from s or, when s is empty, from the
// rustup toolchain name.
func resolveTarget(s string, env toolchain.Env) (platform.Target, string, error) {
	if s == "" {
		if tc, ok := env.Lookup(toolchain.EnvRustupToolchain); ok {
			s = platform.TripleFromToolchain(tc)
		}
	}
	return platform.Resolve(s)
}

// prebuild runs the upstream compiler once before anything is written.
func prebuild(ctx context.Context, runner execx.Runner, opts Options, triple, workDir string, spec *toolchain.Spec) error {
	fields := strings.Fields(opts.Upstream)
	_, err := runner.Run(ctx, execx.Command{
		Name:   fields[0],
		Args:   upstreamArgs(fields[1:], opts.Mode, triple),
		Env:    spec.LinkerEnvList(),
		Dir:    workDir,
		Stream: true,
	})
	if err != nil {
		return failure.New(failure.CompileFailed, "prebuild", errors.Wrap(err, "upstream build"))
	}
	return nil
}

// upstreamArgs adds the mode and target flags to args. They go before a
// "--" separator so they reach the build tool and not the program it
// forwards to.
func upstreamArgs(args []string, mode platform.Mode, triple string) []string {
	flags := []string{"--target=" + triple}
	if mode == platform.ModeRelease {
		flags = []string{"--release", flags[0]}
	}
	at := len(args)
	for i, a := range args {
		if a == "--" {
			at = i
			break
		}
	}
	out := make([]string, 0, len(args)+len(flags))
	out = append(out, args[:at]...)
	out = append(out, flags...)
	return append(out, args[at:]...)
}

// loaderScript returns the name of the first JavaScript artifact, which the
// web viewer loads.
func loaderScript(artifacts []string) string {
	for _, a := range artifacts {
		if strings.HasSuffix(a, ".js") {
			return filepath.Base(a)
		}
	}
	return branding.AppName() + ".js"
}
