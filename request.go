package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"ScriptBoard/internal/net"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Ask an editor for its script and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := flagEndpoint(cmd, activeProfile(cmd).EditorHost, activeProfile(cmd).EditorPort)
		if err != nil {
			return err
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")

		scripts := make(chan []byte, 1)
		var status string
		t := net.NewUDPTransport(net.Events{
			ScriptReceived: func(script []byte, sender net.Endpoint) {
				select {
				case scripts <- script:
				default:
				}
			},
			Status: func(msg string) { status = msg },
		}, nil, appLog)
		defer t.Close()

		t.Bind(0)
		t.RequestScript(target)
		appLog.Info(status)

		select {
		case script := <-scripts:
			cmd.OutOrStdout().Write(script)
			return nil
		case <-time.After(timeout):
			return errors.New("no reply from editor at " + target.String())
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	},
}

func init() {
	rootCmd.AddCommand(requestCmd)

	requestCmd.Flags().String("host", "", "Editor host (default: from the profile)")
	requestCmd.Flags().Uint16("port", 0, "Editor port (default: from the profile)")
	requestCmd.Flags().Duration("timeout", 3*time.Second, "How long to wait for the reply")
}
