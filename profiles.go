package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the loaded network profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if profiles.Source == "" {
			printf(cmd, "Using the built-in profile (no profiles file found).\n")
		} else {
			printf(cmd, "Profiles from %s\n", profiles.Source)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEDITOR\tRUNNER")
		for _, p := range profiles.All() {
			fmt.Fprintf(w, "%s\t%s:%d\t%s:%d\n", p.Name, p.EditorHost, p.EditorPort, p.RunnerHost, p.RunnerPort)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
