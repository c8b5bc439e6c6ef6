package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/appwrap/appwrap/internal/config"
	"github.com/appwrap/appwrap/internal/failure"
	"github.com/appwrap/appwrap/internal/manifest"
	"github.com/appwrap/appwrap/internal/pipeline"
	"github.com/appwrap/appwrap/internal/platform"
	"github.com/appwrap/appwrap/internal/toolchain"
)

var (
	doctorTarget     string
	doctorDescriptor string
)

func init() {
	doctorCmd.Flags().StringVarP(&doctorTarget, "target", "t", "", "Only check what this target needs")
	doctorCmd.Flags().StringVar(&doctorDescriptor, "check-descriptor", "", "Validate an Info.plist at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that build tools are installed",
	Long: `Look up the host programs and environment each target needs and report
what is missing. With --target, a missing requirement is an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if doctorDescriptor != "" {
			return runDescriptorCheck(out, doctorDescriptor)
		}

		targets := platform.Targets
		if doctorTarget != "" {
			t, _, err := platform.Resolve(doctorTarget)
			if err != nil {
				return err
			}
			targets = []platform.Target{t}
		}

		env := config.Env()
		missing := 0
		for _, t := range targets {
			missing += checkTarget(out, t, env)
		}
		missing += checkPlistEditor(out, config.Get(config.KeyPlistEditor))

		if doctorTarget != "" && missing > 0 {
			return fmt.Errorf("%d requirement(s) missing for %s", missing, doctorTarget)
		}
		return nil
	},
}

// checkTarget prints the requirements of t and returns how many are missing.
func checkTarget(w io.Writer, t platform.Target, env toolchain.Env) int {
	fmt.Fprintf(w, "%s:\n", t)
	h, _ := pipeline.HandlerFor(t)
	missing := 0
	for _, tool := range h.Tools {
		if !checkBinary(w, tool) {
			missing++
		}
	}

	switch t {
	case platform.MobileAndroid:
		ndk, ok := env.Lookup(toolchain.EnvNDKHome)
		if !ok {
			fmt.Fprintf(w, "  [MISS] %s is not set\n", toolchain.EnvNDKHome)
			return missing + 1
		}
		if info, err := os.Stat(ndk); err != nil || !info.IsDir() {
			fmt.Fprintf(w, "  [MISS] %s=%s is not a directory\n", toolchain.EnvNDKHome, ndk)
			return missing + 1
		}
		v, err := toolchain.CheckNDK(ndk)
		switch {
		case failure.KindOf(err) != nil:
			fmt.Fprintf(w, "  [MISS] %v\n", err)
			return missing + 1
		case err != nil:
			fmt.Fprintf(w, "  [WARN] %s=%s: cannot read NDK version: %v\n", toolchain.EnvNDKHome, ndk, err)
		default:
			fmt.Fprintf(w, "  [ OK ] %s=%s (NDK %s)\n", toolchain.EnvNDKHome, ndk, v)
		}
	case platform.Web:
		fmt.Fprintln(w, "  [ OK ] nothing to compile")
	}
	if cc, ok := env.Lookup(toolchain.EnvCompiler); ok && t != platform.MobileIOS && t != platform.MobileAndroid {
		fmt.Fprintf(w, "  [INFO] %s overrides the compiler with %s\n", toolchain.EnvCompiler, cc)
	}
	return missing
}

func checkPlistEditor(w io.Writer, kind string) int {
	fmt.Fprintf(w, "plist editor (%s):\n", kind)
	tools := pipeline.PlistEditorTools(kind)
	if len(tools) == 0 {
		fmt.Fprintln(w, "  [ OK ] descriptors are written in process")
		return 0
	}
	missing := 0
	for _, tool := range tools {
		if !checkBinary(w, tool) {
			missing++
		}
	}
	return missing
}

func checkBinary(w io.Writer, name string) bool {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
	return true
}

func runDescriptorCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Descriptor validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("descriptor validation failed: %w", err)
	}
	if result.Valid {
		fmt.Fprintln(w, "  [ OK ] Valid descriptor")
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("descriptor %s has %d validation issue(s)", path, len(result.Issues))
}
