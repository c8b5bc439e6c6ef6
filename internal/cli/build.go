package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/appwrap/appwrap/internal/config"
	"github.com/appwrap/appwrap/internal/execx"
	"github.com/appwrap/appwrap/internal/manifest"
	"github.com/appwrap/appwrap/internal/pipeline"
	"github.com/appwrap/appwrap/internal/platform"
)

// buildFlags holds the flags shared by build and run.
type buildFlags struct {
	target       string
	release      bool
	outDir       string
	artifacts    []string
	signIdentity string
	simulator    string
}

var (
	buildOpts buildFlags
	runOpts   buildFlags
)

func addBuildFlags(cmd *cobra.Command, f *buildFlags) {
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target name or triple (default: config target, then RUSTUP_TOOLCHAIN)")
	cmd.Flags().BoolVar(&f.release, "release", false, "Build in release mode and sign Apple bundles")
	cmd.Flags().StringVarP(&f.outDir, "out", "o", "", "Output directory (default: target/<triple>/<mode>)")
	cmd.Flags().StringArrayVar(&f.artifacts, "artifact", nil, "Prebuilt file to copy next to the executable (repeatable)")
	cmd.Flags().StringVar(&f.signIdentity, "sign-identity", "", "codesign identity for release builds")
}

func init() {
	addBuildFlags(buildCmd, &buildOpts)
	addBuildFlags(runCmd, &runOpts)
	runCmd.Flags().StringVar(&runOpts.simulator, "simulator", "", "iOS simulator device name")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile the wrapper and assemble a bundle",
	Long: `Resolve the toolchain for the target, write and compile the native wrapper,
and assemble the bundle. Release builds of macOS and iOS bundles are signed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, &buildOpts, false)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build a bundle and launch it",
	Long: `Build like 'build', then launch the result: macOS bundles are opened,
Linux and Windows executables run in the foreground and iOS bundles are
installed on a simulator. Android and web builds are not launched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, &runOpts, true)
	},
}

// pipelineOptions merges flags over user configuration.
func pipelineOptions(f *buildFlags, run bool) pipeline.Options {
	mode := platform.ModeDebug
	if f.release {
		mode = platform.ModeRelease
	}
	return pipeline.Options{
		Target:       firstNonEmpty(f.target, config.Get(config.KeyTarget)),
		Mode:         mode,
		Run:          run,
		OutDir:       firstNonEmpty(f.outDir, config.Get(config.KeyOutDir)),
		Artifacts:    f.artifacts,
		SignIdentity: firstNonEmpty(f.signIdentity, config.Get(config.KeySignIdentity)),
		Simulator:    firstNonEmpty(f.simulator, config.Get(config.KeySimulator)),
		Compiler:     config.Get(config.KeyCompiler),
		AppVersion:   config.Get(config.KeyAppVersion),
		Upstream:     config.Get(config.KeyUpstreamCommand),
	}
}

func runPipeline(cmd *cobra.Command, f *buildFlags, run bool) error {
	out := cmd.OutOrStdout()
	log := logrus.NewEntry(logrus.StandardLogger())
	runner := &execx.ExecRunner{Stdout: out, Stderr: cmd.ErrOrStderr(), Log: log}

	editor, err := manifest.NewEditor(config.Get(config.KeyPlistEditor), platform.HostOS, runner)
	if err != nil {
		return fmt.Errorf("configuring plist editor: %w", err)
	}

	o := &pipeline.Orchestrator{
		Runner:       runner,
		Editor:       editor,
		Env:          config.Env(),
		Log:          log,
		OnTransition: stageReporter(out),
	}
	opts := pipelineOptions(f, run)
	res := o.Run(cmd.Context(), opts)
	if res.BuildErr != nil {
		return res.BuildErr
	}

	fmt.Fprintf(out, "%s %s (%s, %s)\n", color.GreenString("Bundle:"), res.Layout.Bundle, res.Target, opts.Mode)
	if res.DeployErr != nil {
		return fmt.Errorf("bundle built but launch failed: %w", res.DeployErr)
	}
	return nil
}

// stageReporter prints one line per state entered.
func stageReporter(w io.Writer) func(from, to pipeline.State) {
	ok := color.New(color.FgGreen).SprintFunc()
	bad := color.New(color.FgRed, color.Bold).SprintFunc()
	return func(from, to pipeline.State) {
		switch to {
		case pipeline.StateAborted:
			fmt.Fprintf(w, "%s after %s\n", bad("aborted"), from)
		case pipeline.StateDone:
			fmt.Fprintln(w, ok("done"))
		default:
			fmt.Fprintf(w, "  %s %s\n", ok("✓"), to)
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
