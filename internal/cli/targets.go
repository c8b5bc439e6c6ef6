package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/appwrap/appwrap/internal/branding"
	"github.com/appwrap/appwrap/internal/bundle"
	"github.com/appwrap/appwrap/internal/deploy"
	"github.com/appwrap/appwrap/internal/platform"
)

var targetsJSON bool

func init() {
	targetsCmd.Flags().BoolVar(&targetsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(targetsCmd)
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List supported targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := targetEntries()
		if targetsJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TARGET\tTRIPLE\tEXECUTABLE\tSIGNED\tLAUNCH")
		for _, e := range entries {
			signed := "-"
			if e.Signed {
				signed = "release"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Target, e.Triple, e.Executable, signed, e.Launch)
		}
		return w.Flush()
	},
}

type targetEntry struct {
	Target     string `json:"target"`
	Triple     string `json:"triple"`
	Executable string `json:"executable"`
	Signed     bool   `json:"signed"`
	Launch     string `json:"launch"`
}

func targetEntries() []targetEntry {
	entries := make([]targetEntry, 0, len(platform.Targets))
	for _, t := range platform.Targets {
		l := bundle.NewLayout(t, ".", branding.AppName())
		entries = append(entries, targetEntry{
			Target:     t.String(),
			Triple:     t.CanonicalTriple(),
			Executable: l.Executable,
			Signed:     t.Signs(),
			Launch:     deploy.TargetFor(t, branding.Simulator()).String(),
		})
	}
	return entries
}
