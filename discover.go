package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ScriptBoard/internal/net"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List editors and runners advertised on the LAN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		roleName, _ := cmd.Flags().GetString("role")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		var roles []net.Role
		switch roleName {
		case "all":
			roles = []net.Role{net.RoleEditor, net.RoleRunner}
		case string(net.RoleEditor), string(net.RoleRunner):
			roles = []net.Role{net.Role(roleName)}
		default:
			return fmt.Errorf("unknown role %q (want editor, runner or all)", roleName)
		}

		var found []net.Discovered
		for _, role := range roles {
			results := make(chan net.Discovered, 16)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for d := range results {
					found = append(found, d)
				}
			}()
			err := net.Browse(role, timeout, func(d net.Discovered) { results <- d })
			close(results)
			<-done
			if err != nil {
				return fmt.Errorf("browse %s: %w", role, err)
			}
		}

		if len(found) == 0 {
			printf(cmd, "Nothing found.\n")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROLE\tINSTANCE\tHOST\tENDPOINT")
		for _, d := range found {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Role, d.Instance, d.Host, d.Endpoint)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().String("role", "all", "What to look for: editor, runner or all")
	discoverCmd.Flags().Duration("timeout", 2*time.Second, "How long to listen for answers per role")
}
