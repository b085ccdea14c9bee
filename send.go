package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ScriptBoard/internal/net"
)

var sendCmd = &cobra.Command{
	Use:   "send FILE",
	Short: "Send a script file to a runner once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}

		target, err := flagEndpoint(cmd, activeProfile(cmd).RunnerHost, activeProfile(cmd).RunnerPort)
		if err != nil {
			return err
		}

		var status string
		t := net.NewUDPTransport(net.Events{Status: func(msg string) { status = msg }}, nil, appLog)
		defer t.Close()
		err = t.TrySendScript(data, target)
		printf(cmd, "%s\n", status)
		return err
	},
}

// flagEndpoint resolves --host and --port, falling back to the profile's.
func flagEndpoint(cmd *cobra.Command, host string, port uint16) (net.Endpoint, error) {
	if cmd.Flags().Changed("host") {
		host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetUint16("port")
	}
	return net.ResolveEndpoint(cmd.Context(), host, port)
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("host", "", "Runner host (default: from the profile)")
	sendCmd.Flags().Uint16("port", 0, "Runner port (default: from the profile)")
}
