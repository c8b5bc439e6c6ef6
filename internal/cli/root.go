package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/appwrap/appwrap/internal/branding"
	"github.com/appwrap/appwrap/internal/config"
	"github.com/appwrap/appwrap/internal/failure"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` turns compiled game and application code into platform-native bundles.

It writes a small native wrapper, compiles it with the platform toolchain,
lays out the bundle with its Info.plist, signs release builds and can
launch the result on the desktop or an iOS simulator.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(cmd.ErrOrStderr(), verbose)
		if noColor {
			color.NoColor = true
		}
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every external command")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func setupLogging(w io.Writer, debug bool) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)
	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return rootCmd.Execute()
}

// ExecuteArgs runs the command tree with explicit arguments and writers.
func ExecuteArgs(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	return rootCmd.Execute()
}

// PrintError reports err on w, naming the failed stage when known.
func PrintError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	if stage := failure.StageOf(err); stage != "" {
		fmt.Fprintf(w, "%s %s\n", color.RedString("error [%s]:", stage), err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", color.RedString("error:"), err)
}
